// Package classifier maps free-text user messages to intent categories.
package classifier

import (
	"regexp"
	"strings"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

var greetingPattern = regexp.MustCompile(`(?i)^(hi|hello|hey|greetings|good morning|good afternoon|good evening)`)

// rule pairs an intent with its predicate. Rules are evaluated in order and the first match wins.
type rule struct {
	intent types.Intent
	match  func(raw, lower string) bool
}

// rules is a behavioral contract: "love note" also appears in content generation and "help" in
// relationship advice, so reordering changes observed classifications.
var rules = []rule{
	{types.IntentGreeting, func(raw, _ string) bool {
		return greetingPattern.MatchString(strings.TrimLeft(raw, " \t\r\n"))
	}},
	{types.IntentFeatureHelp, containsAny(
		"how do i", "how to", "help with", "love note", "date idea", "goal", "milestone", "feature",
	)},
	{types.IntentRelationshipAdvice, containsAny(
		"advice", "help", "problem", "issue", "struggle", "difficult",
		"communication", "argue", "fight", "intimacy", "connection", "improve",
	)},
	{types.IntentDateIdeas, containsAny(
		"date", "activity", "what to do", "weekend", "tonight", "idea",
	)},
	{types.IntentContentGeneration, containsAny(
		"poem", "write", "create", "generate", "love note", "message", "apology", "letter",
	)},
	{types.IntentSubscriptionInfo, containsAny(
		"subscription", "plan", "tier", "premium", "what can i do", "features",
	)},
}

// Classify returns exactly one intent for message. Messages that match no rule are feature_help.
func Classify(message string) types.Intent {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if r.match(message, lower) {
			return r.intent
		}
	}
	return types.IntentFeatureHelp
}

func containsAny(keywords ...string) func(raw, lower string) bool {
	return func(_, lower string) bool {
		return ContainsAny(lower, keywords...)
	}
}

// ContainsAny reports whether lower contains any of the keywords.
func ContainsAny(lower string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
