package learning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/utils"
)

const (
	// SourceAutoLearned tags knowledge created from insights.
	SourceAutoLearned = "auto_learned"

	learnedTitlePrefix = "Learned: "
	learnedTitleLength = 50
)

// PromoteOptions bounds one promotion pass.
type PromoteOptions struct {
	// PlatformID limits the pass to one tenant; empty promotes every tenant.
	PlatformID    string
	MinConfidence float64
	BatchSize     int
}

// Promoter turns confident insights into knowledge entries.
type Promoter struct {
	insights InsightRepo
}

// NewPromoter creates a Promoter.
func NewPromoter(insights InsightRepo) *Promoter {
	return &Promoter{insights: insights}
}

// Promote converts up to BatchSize unapproved insights with confidence of at least MinConfidence
// into knowledge entries, most confident first. Each insight is promoted in its own transaction;
// failures are logged and skipped. It returns the number promoted.
func (p *Promoter) Promote(ctx context.Context, opts PromoteOptions) (int, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	pending, err := p.insights.PendingInsights(ctx, opts.PlatformID, opts.MinConfidence, opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending insights: %w", err)
	}

	promoted := 0
	for _, insight := range pending {
		entry := KnowledgeFromInsight(insight)
		if err := p.insights.Promote(ctx, insight, &entry); err != nil {
			slog.Warn("failed to promote insight", "insight_id", insight.ID, "error", err)
			continue
		}
		slog.Info("knowledge entry created from insight", "insight_id", insight.ID, "knowledge_id", entry.ID,
			"confidence", insight.Confidence, "content_type", entry.ContentType)
		promoted++
	}
	return promoted, nil
}

// KnowledgeFromInsight builds the knowledge entry an insight is promoted to.
func KnowledgeFromInsight(insight types.LearningInsight) types.KnowledgeEntry {
	contentType := types.ContentTypeAdvice
	if insight.InsightType == types.InsightQuestion {
		contentType = types.ContentTypeFAQ
	}
	return types.KnowledgeEntry{
		Title:       learnedTitlePrefix + utils.Truncate(insight.Content, learnedTitleLength),
		Content:     insight.Content,
		ContentType: contentType,
		PlatformID:  insight.PlatformID,
		Language:    insight.Language,
		Metadata: map[string]any{
			"source":      SourceAutoLearned,
			"confidence":  insight.Confidence,
			"usage_count": insight.UsageCount,
			"insight_id":  insight.ID,
		},
	}
}
