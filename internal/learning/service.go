package learning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/apperr"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

const (
	// ThankYouMessage is returned to the caller once feedback is stored.
	ThankYouMessage = "Thank you for your feedback! This helps us improve."

	minLearningRating = 4
)

// ConversationReader loads the transcript a rating refers to.
type ConversationReader interface {
	// GetConversation returns nil when the conversation does not exist.
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)
	// ListMessages returns every message of the conversation, oldest first.
	ListMessages(ctx context.Context, conversationID string) ([]types.Message, error)
}

// FeedbackRepo appends ratings.
type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, fb *types.Feedback) error
}

// PatternRepo stores query pattern statistics.
type PatternRepo interface {
	// RecordSuccess increments both counters of the pattern or creates it with 1/1, returning the
	// stored row.
	RecordSuccess(ctx context.Context, p types.QueryPattern) (types.QueryPattern, error)
	// TopPatterns returns the scope's patterns by success count, highest first.
	TopPatterns(ctx context.Context, platformID, language string, limit int) ([]types.QueryPattern, error)
}

// InsightRepo stores and promotes learning insights.
type InsightRepo interface {
	CreateInsight(ctx context.Context, insight *types.LearningInsight) error
	// PendingInsights returns unapproved insights with at least minConfidence, most confident first.
	// An empty platformID selects every tenant.
	PendingInsights(ctx context.Context, platformID string, minConfidence float64, limit int) ([]types.LearningInsight, error)
	// Promote creates entry, logs the update and approves the insight in one transaction.
	Promote(ctx context.Context, insight types.LearningInsight, entry *types.KnowledgeEntry) error
}

// FeedbackInput is a rating submitted for one assistant message.
type FeedbackInput struct {
	MessageID      string
	ConversationID string
	FeedbackType   string
	Rating         int
	Comment        string
	UserID         string
}

// FeedbackResult is returned once feedback is stored.
type FeedbackResult struct {
	Success bool
	Message string
}

// Service records feedback and learns from helpful replies.
type Service struct {
	conversations ConversationReader
	feedback      FeedbackRepo
	patterns      PatternRepo
	insights      InsightRepo
}

// NewService creates a learning Service.
func NewService(conversations ConversationReader, feedback FeedbackRepo, patterns PatternRepo, insights InsightRepo) *Service {
	return &Service{
		conversations: conversations,
		feedback:      feedback,
		patterns:      patterns,
		insights:      insights,
	}
}

// Validate checks the required fields of in.
func (in FeedbackInput) Validate() error {
	if strings.TrimSpace(in.MessageID) == "" || strings.TrimSpace(in.ConversationID) == "" ||
		strings.TrimSpace(in.FeedbackType) == "" || in.Rating == 0 {
		return apperr.Validation("messageId, conversationId, feedbackType, and rating are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.Validation("Rating must be between 1 and 5")
	}
	if !types.ValidFeedbackType(in.FeedbackType) {
		return apperr.Validation("feedbackType must be one of helpful, not_helpful, incorrect, suggestion")
	}
	return nil
}

// ProcessFeedback stores the rating and, for helpful replies rated 4 or higher, records the query
// pattern and a learning insight. Only storing the rating can fail the call.
func (s *Service) ProcessFeedback(ctx context.Context, in FeedbackInput) (FeedbackResult, error) {
	if err := in.Validate(); err != nil {
		return FeedbackResult{}, err
	}

	conv, err := s.conversations.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return FeedbackResult{}, apperr.Upstream("failed to load conversation", err)
	}
	if conv == nil {
		return FeedbackResult{}, apperr.Validation("conversation not found")
	}

	author := in.UserID
	if author == "" {
		author = conv.UserID
	}
	fb := &types.Feedback{
		MessageID:      in.MessageID,
		ConversationID: in.ConversationID,
		UserID:         author,
		FeedbackType:   in.FeedbackType,
		Rating:         in.Rating,
		Comment:        in.Comment,
	}
	if err := s.feedback.CreateFeedback(ctx, fb); err != nil {
		return FeedbackResult{}, apperr.Upstream("failed to store feedback", err)
	}

	if in.Rating >= minLearningRating && in.FeedbackType == types.FeedbackHelpful {
		if err := s.learn(ctx, *conv, in); err != nil {
			slog.Warn("learning from feedback failed", "conversation_id", conv.ID, "message_id", in.MessageID, "error", err)
		}
	}

	return FeedbackResult{Success: true, Message: ThankYouMessage}, nil
}

func (s *Service) learn(ctx context.Context, conv types.Conversation, in FeedbackInput) error {
	messages, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}
	analysis, ok := AnalyzeExchange(messages, in.MessageID)
	if !ok {
		return nil
	}

	var pattern types.QueryPattern
	if analysis.Pattern != "" {
		pattern, err = s.patterns.RecordSuccess(ctx, types.QueryPattern{
			PlatformID: conv.PlatformID,
			Pattern:    analysis.Pattern,
			Category:   analysis.Category,
			Language:   conv.Language,
		})
		if err != nil {
			return fmt.Errorf("failed to record query pattern: %w", err)
		}
		slog.Info("query pattern recorded", "pattern", pattern.Pattern, "category", pattern.Category,
			"success_count", pattern.SuccessCount, "total_uses", pattern.TotalUses)
	}

	if analysis.UsefulContent == "" {
		return nil
	}
	insight := &types.LearningInsight{
		PlatformID:     conv.PlatformID,
		ConversationID: conv.ID,
		InsightType:    InsightType(analysis.Category),
		Content:        analysis.UsefulContent,
		Language:       conv.Language,
		Context: map[string]any{
			"question":   analysis.Question,
			"pattern":    analysis.Pattern,
			"category":   string(analysis.Category),
			"message_id": in.MessageID,
			"rating":     in.Rating,
		},
		Confidence: ComputeConfidence(in.Rating, pattern),
	}
	if err := s.insights.CreateInsight(ctx, insight); err != nil {
		return fmt.Errorf("failed to store learning insight: %w", err)
	}
	return nil
}
