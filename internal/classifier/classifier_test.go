package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    types.Intent
	}{
		{"Hello", types.IntentGreeting},
		{"hey there, I need advice on a love note", types.IntentGreeting},
		{"Good evening! What is a premium plan?", types.IntentGreeting},
		{"  hi", types.IntentGreeting},
		{"How do I send a love note", types.IntentFeatureHelp},
		{"I want advice about my love note", types.IntentFeatureHelp},
		{"Where can I track a milestone?", types.IntentFeatureHelp},
		{"We keep having the same fight", types.IntentRelationshipAdvice},
		{"Our communication is difficult", types.IntentRelationshipAdvice},
		{"Any fun things for this weekend?", types.IntentDateIdeas},
		{"What should we do tonight", types.IntentDateIdeas},
		{"Can you write me a poem for my partner?", types.IntentContentGeneration},
		{"I owe her an apology", types.IntentContentGeneration},
		{"Which subscription am I on?", types.IntentSubscriptionInfo},
		{"Tell me about the premium tier", types.IntentSubscriptionInfo},
		{"asdfgh", types.IntentFeatureHelp},
		{"", types.IntentFeatureHelp},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestClassifyGreetingWinsOverKeywords(t *testing.T) {
	for _, msg := range []string{
		"Hi, how do I set a goal?",
		"hello, I need help with a fight",
		"GREETINGS - write me a poem",
		"Good morning, which subscription tier am I on?",
	} {
		assert.Equal(t, types.IntentGreeting, Classify(msg), msg)
	}
}

func TestClassifyFeatureBeatsAdvice(t *testing.T) {
	for _, msg := range []string{
		"I need advice on my relationship goal",
		"problem with the love note feature",
		"how to improve communication",
	} {
		assert.Equal(t, types.IntentFeatureHelp, Classify(msg), msg)
	}
}

func TestClassifyAlwaysReturnsKnownIntent(t *testing.T) {
	for _, msg := range []string{"x", "date night", "plan", "letter", "struggle"} {
		assert.True(t, Classify(msg).Valid(), msg)
	}
}
