package learning

import (
	"context"
	"errors"
	"sort"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

type fakeConversations struct {
	conversations map[string]types.Conversation
	messages      map[string][]types.Message
}

func (f *fakeConversations) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeConversations) ListMessages(ctx context.Context, conversationID string) ([]types.Message, error) {
	return f.messages[conversationID], nil
}

type fakeFeedback struct {
	stored []types.Feedback
	err    error
}

func (f *fakeFeedback) CreateFeedback(ctx context.Context, fb *types.Feedback) error {
	if f.err != nil {
		return f.err
	}
	fb.ID = "fb-1"
	f.stored = append(f.stored, *fb)
	return nil
}

type fakePatterns struct {
	rows []types.QueryPattern
	err  error
}

func (f *fakePatterns) RecordSuccess(ctx context.Context, p types.QueryPattern) (types.QueryPattern, error) {
	if f.err != nil {
		return types.QueryPattern{}, f.err
	}
	for i, row := range f.rows {
		if row.PlatformID == p.PlatformID && row.Pattern == p.Pattern && row.Language == p.Language {
			f.rows[i].SuccessCount++
			f.rows[i].TotalUses++
			return f.rows[i], nil
		}
	}
	p.SuccessCount, p.TotalUses = 1, 1
	f.rows = append(f.rows, p)
	return p, nil
}

func (f *fakePatterns) TopPatterns(ctx context.Context, platformID, language string, limit int) ([]types.QueryPattern, error) {
	var out []types.QueryPattern
	for _, row := range f.rows {
		if row.PlatformID == platformID && row.Language == language {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SuccessCount > out[j].SuccessCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeInsights struct {
	created  []types.LearningInsight
	pending  []types.LearningInsight
	promoted []types.KnowledgeEntry
	failOn   string
	gotOpts  struct {
		platformID    string
		minConfidence float64
		limit         int
	}
}

func (f *fakeInsights) CreateInsight(ctx context.Context, insight *types.LearningInsight) error {
	f.created = append(f.created, *insight)
	return nil
}

func (f *fakeInsights) PendingInsights(ctx context.Context, platformID string, minConfidence float64, limit int) ([]types.LearningInsight, error) {
	f.gotOpts.platformID, f.gotOpts.minConfidence, f.gotOpts.limit = platformID, minConfidence, limit
	return f.pending, nil
}

func (f *fakeInsights) Promote(ctx context.Context, insight types.LearningInsight, entry *types.KnowledgeEntry) error {
	if insight.ID == f.failOn {
		return errors.New("constraint violation")
	}
	entry.ID = "k-" + insight.ID
	f.promoted = append(f.promoted, *entry)
	return nil
}
