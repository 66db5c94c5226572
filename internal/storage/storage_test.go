package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/learning"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/rag"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/usercontext"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chatbot.db")
	store, err := Open(ctx, sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.AutoMigrate(ctx))
	return store
}

func TestConversationMessagesOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Conversations

	base := time.Date(2020, 1, 2, 10, 0, 0, 0, time.UTC)
	conv := &types.Conversation{UserID: "u1", Title: "hello", Language: "en", CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.CreateConversation(ctx, conv))
	require.NotEmpty(t, conv.ID)

	for i, content := range []string{"one", "two", "three", "four"} {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		msg := &types.Message{
			ConversationID: conv.ID,
			Role:           role,
			Content:        content,
			CreatedAt:      base.Add(time.Duration(i+1) * time.Second),
		}
		if role == types.RoleAssistant {
			msg.Metadata = types.MessageMetadata{Model: "template", FeaturesSuggested: []string{"Love Notes"}}
		}
		require.NoError(t, repo.CreateMessage(ctx, msg))
	}

	recent, err := repo.RecentMessages(ctx, conv.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].Content)
	assert.Equal(t, "four", recent[1].Content)
	assert.Equal(t, "template", recent[1].Metadata.Model)
	assert.Equal(t, []string{"Love Notes"}, recent[1].Metadata.FeaturesSuggested)

	all, err := repo.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "one", all[0].Content)

	got, err := repo.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.UpdatedAt.Equal(base.Add(4*time.Second)))

	missing, err := repo.GetConversation(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConversationListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Conversations

	base := time.Date(2020, 1, 2, 10, 0, 0, 0, time.UTC)
	older := &types.Conversation{UserID: "u1", Title: "older", Language: "en", CreatedAt: base, UpdatedAt: base}
	newer := &types.Conversation{UserID: "u1", Title: "newer", Language: "en", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)}
	other := &types.Conversation{UserID: "u2", Title: "other", Language: "en"}
	for _, c := range []*types.Conversation{older, newer, other} {
		require.NoError(t, repo.CreateConversation(ctx, c))
	}
	require.NoError(t, repo.CreateMessage(ctx, &types.Message{ConversationID: older.ID, Role: types.RoleUser, Content: "hi"}))

	list, err := repo.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, older.ID, list[0].ID, "a new message moves the conversation to the top")

	require.NoError(t, repo.UpdateTitle(ctx, older.ID, "renamed"))
	require.NoError(t, repo.DeleteConversation(ctx, newer.ID))

	list, err = repo.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Title)

	require.NoError(t, repo.DeleteConversation(ctx, older.ID))
	msgs, err := repo.ListMessages(ctx, older.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestKnowledgeSearchScoping(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Knowledge

	long := "Meditation together " + strings.Repeat("helps couples slow down. ", 30)
	entries := []*types.KnowledgeEntry{
		{Title: "Couples meditation", Content: long, ContentType: types.ContentTypeAdvice},
		{Title: "Tenant meditation", Content: "Tenant only meditation guide.", ContentType: types.ContentTypeAdvice, PlatformID: "p1"},
		{Title: "Spanish meditation", Content: "Meditación en pareja.", ContentType: types.ContentTypeAdvice, Language: "es"},
		{Title: "Date night", Content: "Plan a picnic.", ContentType: types.ContentTypeAdvice},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(ctx, e))
	}

	global, err := repo.Search(ctx, types.KnowledgeQuery{Keywords: []string{"MEDITATION"}, Language: "en", Limit: 5})
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, "Couples meditation", global[0].Title)

	tenant, err := repo.Search(ctx, types.KnowledgeQuery{Keywords: []string{"meditation"}, Language: "en", PlatformID: "p1", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, tenant, 2)

	anyLang, err := repo.Search(ctx, types.KnowledgeQuery{Keywords: []string{"meditation"}, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, anyLang, 2)

	picnic, err := repo.Search(ctx, types.KnowledgeQuery{Keywords: []string{"zzz", "picnic"}, Language: "en", Limit: 5})
	require.NoError(t, err)
	require.Len(t, picnic, 1)
	assert.Equal(t, "Date night", picnic[0].Title)

	// Retrieval without a tenant returns global entries only, previewed to 300 characters.
	block := rag.NewRetriever(repo, 3).Search(ctx, "tell me about meditation", "en", "")
	require.NoError(t, block.Err)
	assert.Contains(t, block.Value, "Couples meditation")
	assert.NotContains(t, block.Value, "Tenant meditation")
	assert.NotContains(t, block.Value, long)
}

func TestPatternRecordSuccessIncrements(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Patterns

	p := types.QueryPattern{Pattern: "how do i write a love note", Category: types.IntentContentGeneration, Language: "en"}
	first, err := repo.RecordSuccess(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SuccessCount)
	assert.Equal(t, 1, first.TotalUses)

	second, err := repo.RecordSuccess(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.SuccessCount)
	assert.Equal(t, 2, second.TotalUses)

	tenant := p
	tenant.PlatformID = "p1"
	scoped, err := repo.RecordSuccess(ctx, tenant)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, scoped.ID)
	assert.Equal(t, 1, scoped.TotalUses)

	top, err := repo.TopPatterns(ctx, "", "en", 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, types.IntentContentGeneration, top[0].Category)

	top, err = repo.TopPatterns(ctx, "p1", "en", 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p1", top[0].PlatformID)
}

func TestInsightPromotion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	low := &types.LearningInsight{ConversationID: "c1", InsightType: types.InsightAdvice, Content: "low", Language: "en", Confidence: 0.4}
	high := &types.LearningInsight{
		ConversationID: "c1",
		InsightType:    types.InsightQuestion,
		Content:        "Open Love Notes and tap compose.",
		Language:       "en",
		Confidence:     0.9,
		Context:        map[string]any{"question": "how do I write a note?"},
	}
	require.NoError(t, store.Insights.CreateInsight(ctx, low))
	require.NoError(t, store.Insights.CreateInsight(ctx, high))

	promoted, err := learning.NewPromoter(store.Insights).Promote(ctx, learning.PromoteOptions{MinConfidence: 0.7})
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	pending, err := store.Insights.PendingInsights(ctx, "", 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, low.ID, pending[0].ID)

	found, err := store.Knowledge.Search(ctx, types.KnowledgeQuery{Keywords: []string{"compose"}, Limit: 5})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, types.ContentTypeFAQ, found[0].ContentType)
	assert.Equal(t, learning.SourceAutoLearned, found[0].Metadata["source"])

	updates, err := store.Knowledge.Updates(ctx, found[0].ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, UpdateAutoCreated, updates[0].UpdateType)
	assert.Equal(t, high.ID, updates[0].SourceInsightID)

	// A second promotion of the same insight rolls back without new knowledge.
	err = store.Insights.Promote(ctx, *high, &types.KnowledgeEntry{Title: "dup", Content: "compose", ContentType: types.ContentTypeFAQ})
	require.Error(t, err)
	found, err = store.Knowledge.Search(ctx, types.KnowledgeQuery{Keywords: []string{"compose"}, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestProfileAndPlatform(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Profiles.UpsertProfile(ctx, types.Profile{UserID: "u1", SubscriptionTier: types.TierPremiere, PartnerName: "Sam"}))
	_, err := store.Profiles.AddGoal(ctx, "u1", "Weekly date night", GoalActive)
	require.NoError(t, err)
	_, err = store.Profiles.AddGoal(ctx, "u1", "Done already", GoalCompleted)
	require.NoError(t, err)
	_, err = store.Profiles.AddMilestone(ctx, "u1", "Anniversary", time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	_, err = store.Profiles.AddMilestone(ctx, "u1", "Last year", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	uc := usercontext.NewBuilder(store.Profiles).Build(ctx, "u1")
	require.NoError(t, uc.Err)
	assert.Equal(t, types.TierPremiere, uc.Value.SubscriptionTier)
	assert.Equal(t, "Sam", uc.Value.PartnerName)
	require.Len(t, uc.Value.ActiveGoals, 1)
	assert.Equal(t, "Weekly date night", uc.Value.ActiveGoals[0].Title)
	require.Len(t, uc.Value.UpcomingMilestones, 1)
	assert.Equal(t, "Anniversary", uc.Value.UpcomingMilestones[0].Title)

	p := &types.Platform{
		PlatformKey: "acme",
		Name:        "Acme Love",
		Branding:    map[string]any{"primary_color": "#3b82f6"},
		Features:    []string{"Love Notes", "Date Ideas"},
		IsActive:    true,
	}
	require.NoError(t, store.Platforms.Create(ctx, p))

	got, err := store.Platforms.GetActiveByKey(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Love Notes", "Date Ideas"}, got.Features)
	assert.Equal(t, "#3b82f6", got.Branding["primary_color"])

	none, err := store.Platforms.GetActiveByKey(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}
