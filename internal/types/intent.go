package types

// Intent is the closed set of query categories that drive template selection.
type Intent string

const (
	IntentGreeting           Intent = "greeting"
	IntentFeatureHelp        Intent = "feature_help"
	IntentRelationshipAdvice Intent = "relationship_advice"
	IntentDateIdeas          Intent = "date_ideas"
	IntentContentGeneration  Intent = "content_generation"
	IntentSubscriptionInfo   Intent = "subscription_info"
)

// Intents lists every category in classification priority order.
var Intents = []Intent{
	IntentGreeting,
	IntentFeatureHelp,
	IntentRelationshipAdvice,
	IntentDateIdeas,
	IntentContentGeneration,
	IntentSubscriptionInfo,
}

// Valid reports whether i is one of the known categories.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}
