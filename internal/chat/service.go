// Package chat orchestrates the reply path: conversation state, enrichment and reply generation.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/apperr"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/classifier"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/metrics"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/responder"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/utils"
)

const titleLength = 50

// ConversationStore persists conversations and their messages.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conv *types.Conversation) error
	// GetConversation returns nil when the conversation does not exist.
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)
	UpdateTitle(ctx context.Context, id, title string) error
	ListConversations(ctx context.Context, userID string) ([]types.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	CreateMessage(ctx context.Context, msg *types.Message) error
	// RecentMessages returns the last limit messages, oldest first.
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]types.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]types.Message, error)
}

// PlatformResolver maps a platform key to a tenant, falling back to the default.
type PlatformResolver interface {
	Resolve(ctx context.Context, key string) types.Platform
}

// ContextBuilder assembles the per-request user context.
type ContextBuilder interface {
	Build(ctx context.Context, userID string) types.Enrichment[types.UserContext]
}

// KnowledgeSearcher returns formatted knowledge for a query.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query, language, platformID string) types.Enrichment[string]
}

// Responder generates the assistant reply.
type Responder interface {
	Respond(ctx context.Context, q responder.Query) (responder.Reply, error)
}

// Options configures a Service.
type Options struct {
	Mode               string
	HistoryLimit       int
	DefaultLanguage    string
	DefaultPlatformKey string
}

// Request is one inbound chat message.
type Request struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
	UserID         string `json:"userId"`
	Language       string `json:"language,omitempty"`
	PlatformKey    string `json:"platformKey,omitempty"`
}

// Response is the reply returned to the widget.
type Response struct {
	Message           string   `json:"message"`
	ConversationID    string   `json:"conversationId"`
	FeaturesSuggested []string `json:"featuresSuggested"`
}

// Service runs the reply pipeline.
type Service struct {
	conversations ConversationStore
	platforms     PlatformResolver
	contexts      ContextBuilder
	knowledge     KnowledgeSearcher
	responder     Responder
	metrics       *metrics.Metrics
	opts          Options
}

// NewService creates a Service. m may be nil.
func NewService(
	conversations ConversationStore,
	platforms PlatformResolver,
	contexts ContextBuilder,
	knowledge KnowledgeSearcher,
	r Responder,
	m *metrics.Metrics,
	opts Options,
) *Service {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &Service{
		conversations: conversations,
		platforms:     platforms,
		contexts:      contexts,
		knowledge:     knowledge,
		responder:     r,
		metrics:       m,
		opts:          opts,
	}
}

// Reply answers one message and persists both sides of the exchange.
func (s *Service) Reply(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.UserID) == "" {
		return Response{}, apperr.Validation("Message and userId are required")
	}
	if req.Language == "" {
		req.Language = s.opts.DefaultLanguage
	}
	if req.PlatformKey == "" {
		req.PlatformKey = s.opts.DefaultPlatformKey
	}

	tenant := s.platforms.Resolve(ctx, req.PlatformKey)

	conv, err := s.conversation(ctx, req, tenant)
	if err != nil {
		return Response{}, err
	}

	userMsg := &types.Message{ConversationID: conv.ID, Role: types.RoleUser, Content: req.Message}
	if err := s.conversations.CreateMessage(ctx, userMsg); err != nil {
		return Response{}, apperr.Upstream("failed to save user message", err)
	}

	history, err := s.conversations.RecentMessages(ctx, conv.ID, s.opts.HistoryLimit)
	if err != nil {
		return Response{}, apperr.Upstream("failed to load conversation history", err)
	}

	uc, knowledge := s.enrich(ctx, req, tenant)

	reply, err := s.responder.Respond(ctx, responder.Query{
		Message:   req.Message,
		Language:  req.Language,
		Context:   uc,
		Knowledge: knowledge,
		History:   history,
		Platform:  tenant,
	})
	intent := reply.Intent
	if intent == "" {
		intent = classifier.Classify(req.Message)
	}
	if err != nil {
		s.metrics.RecordReply(s.opts.Mode, string(intent), "error", time.Since(start))
		return Response{}, err
	}

	assistantMsg := &types.Message{
		ConversationID: conv.ID,
		Role:           types.RoleAssistant,
		Content:        reply.Content,
		Metadata: types.MessageMetadata{
			Model:             reply.Model,
			Tokens:            reply.Tokens,
			FeaturesSuggested: reply.FeaturesSuggested,
		},
	}
	if err := s.conversations.CreateMessage(ctx, assistantMsg); err != nil {
		return Response{}, apperr.Upstream("failed to save assistant message", err)
	}

	if len(history) == 1 {
		if err := s.conversations.UpdateTitle(ctx, conv.ID, utils.Truncate(req.Message, titleLength)); err != nil {
			slog.Warn("failed to update conversation title", "conversation_id", conv.ID, "error", err)
		}
	}

	s.metrics.RecordReply(s.opts.Mode, string(intent), "success", time.Since(start))
	s.metrics.RecordTokens(reply.Model, reply.Tokens)
	slog.Info("reply generated",
		"conversation_id", conv.ID,
		"platform", tenant.PlatformKey,
		"intent", intent,
		"model", reply.Model,
		"features", len(reply.FeaturesSuggested),
	)

	features := reply.FeaturesSuggested
	if features == nil {
		features = []string{}
	}
	return Response{
		Message:           reply.Content,
		ConversationID:    conv.ID,
		FeaturesSuggested: features,
	}, nil
}

func (s *Service) conversation(ctx context.Context, req Request, tenant types.Platform) (types.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := s.conversations.GetConversation(ctx, req.ConversationID)
		if err != nil {
			return types.Conversation{}, apperr.Upstream("failed to load conversation", err)
		}
		if conv == nil || conv.UserID != req.UserID {
			return types.Conversation{}, apperr.Validation("conversation not found")
		}
		return *conv, nil
	}

	conv := types.Conversation{
		UserID:     req.UserID,
		PlatformID: tenant.ID,
		Title:      utils.Truncate(req.Message, titleLength),
		Language:   req.Language,
	}
	if err := s.conversations.CreateConversation(ctx, &conv); err != nil {
		return types.Conversation{}, apperr.Upstream("failed to create conversation", err)
	}
	return conv, nil
}

// enrich runs the best-effort lookups concurrently. Failures leave defaults in place.
func (s *Service) enrich(ctx context.Context, req Request, tenant types.Platform) (types.UserContext, string) {
	var (
		uc        types.Enrichment[types.UserContext]
		knowledge types.Enrichment[string]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		uc = s.contexts.Build(gctx, req.UserID)
		return nil
	})
	g.Go(func() error {
		knowledge = s.knowledge.Search(gctx, req.Message, req.Language, tenant.ID)
		return nil
	})
	// Both lookups report failure through their Enrichment, so the group never returns an error.
	_ = g.Wait()

	if uc.Failed() {
		s.metrics.RecordEnrichmentFailure("user_context")
	}
	if knowledge.Failed() {
		s.metrics.RecordEnrichmentFailure("knowledge")
	}
	if knowledge.Value != "" {
		s.metrics.RecordKnowledgeHit()
	}
	return uc.Value, knowledge.Value
}

// Conversations lists the user's conversations, most recent first.
func (s *Service) Conversations(ctx context.Context, userID string) ([]types.Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("userId is required")
	}
	convs, err := s.conversations.ListConversations(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to list conversations", err)
	}
	return convs, nil
}

// Messages returns the transcript of a conversation, oldest first.
func (s *Service) Messages(ctx context.Context, conversationID string) ([]types.Message, error) {
	if _, err := s.mustExist(ctx, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, apperr.Upstream("failed to list messages", err)
	}
	return msgs, nil
}

// Delete removes a conversation and its messages.
func (s *Service) Delete(ctx context.Context, conversationID string) error {
	if _, err := s.mustExist(ctx, conversationID); err != nil {
		return err
	}
	if err := s.conversations.DeleteConversation(ctx, conversationID); err != nil {
		return apperr.Upstream("failed to delete conversation", err)
	}
	return nil
}

func (s *Service) mustExist(ctx context.Context, conversationID string) (types.Conversation, error) {
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return types.Conversation{}, apperr.Upstream("failed to load conversation", err)
	}
	if conv == nil {
		return types.Conversation{}, apperr.NotFound("conversation not found")
	}
	return *conv, nil
}
