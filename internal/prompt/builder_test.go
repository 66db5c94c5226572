package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

func TestBuildSystemMessage(t *testing.T) {
	tests := []struct {
		name string
		data SystemData
		want string
	}{
		{
			name: "persona only",
			data: SystemData{Persona: "You are helpful.", Language: "es"},
			want: "You are helpful.\n\n**Important:** Respond in ES language.",
		},
		{
			name: "language defaults to english",
			data: SystemData{Persona: "You are helpful."},
			want: "You are helpful.\n\n**Important:** Respond in EN language.",
		},
		{
			name: "full context and knowledge",
			data: SystemData{
				Persona: "You are helpful.",
				Context: &types.UserContext{
					SubscriptionTier:   types.TierPremiere,
					PartnerName:        "Sam",
					ActiveGoals:        []types.Goal{{Title: "Weekly date"}, {Title: "Save for trip"}},
					UpcomingMilestones: []types.Milestone{{Title: "Anniversary", Date: time.Now()}},
				},
				Knowledge: "**Love Notes** (faq):\nSend notes.",
				Language:  "fr",
			},
			want: "You are helpful.\n\n**User Context:**\n" +
				"- Subscription Tier: Premiere\n" +
				"- Partner Name: Sam\n" +
				"- Active Goals: Weekly date, Save for trip\n" +
				"- Upcoming Milestones: Anniversary\n" +
				"\n\n**Relevant Platform Information:**\n**Love Notes** (faq):\nSend notes.\n" +
				"\n\n**Important:** Respond in FR language.",
		},
		{
			name: "empty context lines omitted",
			data: SystemData{
				Persona:  "P",
				Context:  &types.UserContext{SubscriptionTier: types.TierBasis},
				Language: "en",
			},
			want: "P\n\n**User Context:**\n- Subscription Tier: Basis\n\n\n**Important:** Respond in EN language.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildSystemMessage(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	history := []types.Message{
		{Role: types.RoleUser, Content: "hello"},
		{Role: types.RoleAssistant, Content: "Hi! How can I help?"},
		{Role: types.RoleSystem, Content: "ignored"},
		{Role: types.RoleUser, Content: "date ideas please"},
	}

	contents := NewBuilder(10).Build(history, "date ideas please")

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "Hi! How can I help?", contents[1].Parts[0].Text)
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, "date ideas please", contents[2].Parts[0].Text)
}

func TestBuilderTrimsHistory(t *testing.T) {
	var history []types.Message
	for i := 0; i < 6; i++ {
		history = append(history, types.Message{Role: types.RoleUser, Content: string(rune('a' + i))})
	}

	contents := NewBuilder(2).Build(history, "new")

	require.Len(t, contents, 3)
	assert.Equal(t, "e", contents[0].Parts[0].Text)
	assert.Equal(t, "f", contents[1].Parts[0].Text)
	assert.Equal(t, "new", contents[2].Parts[0].Text)
}
