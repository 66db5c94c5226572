package responder

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/classifier"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/features"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/utils"
)

// TemplateModel tags replies produced without a hosted model.
const TemplateModel = "template"

const (
	excerptProbeLength = 10
	excerptMaxPrepend  = 200
	excerptMatchLength = 50
)

var (
	yourPartnerPattern = regexp.MustCompile(`(?i)your partner`)
	thePartnerPattern  = regexp.MustCompile(`(?i)the partner`)
)

// featureNames maps message keywords to the feature a help request is about. First match wins.
var featureNames = []struct {
	keyword string
	name    string
}{
	{"love note", "Love Notes"},
	{"date idea", "Date Ideas"},
	{"goal", "Relationship Goals"},
	{"milestone", "Milestones"},
	{"memory", "Memory Lane"},
	{"journal", "Shared Journals"},
	{"calendar", "Couples Calendar"},
	{"quiz", "Relationship Quizzes"},
	{"coach", "AI Relationship Coach"},
	{"meditation", "Meditation"},
	{"community", "Community"},
}

// TemplateResponder answers from canned, localized templates. It never calls out of process.
type TemplateResponder struct{}

// NewTemplateResponder creates a TemplateResponder.
func NewTemplateResponder() *TemplateResponder {
	return &TemplateResponder{}
}

// Respond renders the template for the message's intent. It never returns an error.
func (r *TemplateResponder) Respond(ctx context.Context, q Query) (Reply, error) {
	intent := classifier.Classify(q.Message)

	excerpt := knowledgeExcerpt(q.Knowledge, q.Message)
	if excerpt != "" {
		q.Knowledge = excerpt
	}

	text := render(intent, q)
	if excerpt != "" && len([]rune(excerpt)) < excerptMaxPrepend &&
		!strings.Contains(text, utils.Truncate(excerpt, excerptMatchLength)) {
		text = excerpt + "\n\n" + text
	}
	text = Personalize(text, q.Context)

	return Reply{
		Content:           text,
		Model:             TemplateModel,
		FeaturesSuggested: features.Extract(text),
		Intent:            intent,
	}, nil
}

func render(intent types.Intent, q Query) string {
	lower := strings.ToLower(q.Message)
	switch intent {
	case types.IntentGreeting:
		return greeting(q.Language, q.Context.PartnerName)
	case types.IntentRelationshipAdvice:
		return relationshipAdvice(lower)
	case types.IntentDateIdeas:
		return dateIdeas(lower)
	case types.IntentContentGeneration:
		return contentGeneration(lower, q.Context.PartnerName)
	case types.IntentSubscriptionInfo:
		return subscription(q.Context.Tier())
	default:
		return featureHelp(lower, q.Knowledge, q.Context.Tier())
	}
}

func greeting(language, partnerName string) string {
	tmpl, ok := greetings[language]
	if !ok {
		language = "en"
		tmpl = greetings[language]
	}
	if partnerName == "" {
		partnerName = partnerFallback[language]
	}
	return fmt.Sprintf(tmpl, partnerName)
}

func featureHelp(lower, knowledge, tier string) string {
	var feature string
	for _, f := range featureNames {
		if strings.Contains(lower, f.keyword) {
			feature = f.name
			break
		}
	}

	if knowledge != "" {
		if feature == "" {
			feature = "this feature"
		}
		return fmt.Sprintf(featureHelpWithKnowledge, knowledge, feature)
	}
	if feature == "" {
		feature = "platform features"
	}
	return fmt.Sprintf(featureHelpGeneric, feature, tier)
}

func relationshipAdvice(lower string) string {
	switch {
	case classifier.ContainsAny(lower, "communication", "argue", "fight"):
		return adviceCommunication
	case classifier.ContainsAny(lower, "intimacy", "connection", "spark"):
		return adviceIntimacy
	case classifier.ContainsAny(lower, "goal", "improve"):
		return adviceGoals
	default:
		return adviceGeneral
	}
}

func dateIdeas(lower string) string {
	switch {
	case classifier.ContainsAny(lower, "free", "budget", "cheap"):
		return datesFree
	case classifier.ContainsAny(lower, "expensive", "luxury"):
		return datesLuxury
	default:
		return datesAny
	}
}

func contentGeneration(lower, partnerName string) string {
	if partnerName == "" {
		partnerName = partnerFallback["en"]
	}
	switch {
	case strings.Contains(lower, "poem"):
		return fmt.Sprintf(contentPoem, partnerName)
	case classifier.ContainsAny(lower, "love note", "message", "note"):
		return fmt.Sprintf(contentLoveNote, partnerName)
	case classifier.ContainsAny(lower, "apology", "sorry"):
		return fmt.Sprintf(contentApology, partnerName)
	default:
		return fmt.Sprintf(contentMenu, partnerName)
	}
}

// subscription falls back to the Basis body for tiers outside the catalog.
func subscription(tier string) string {
	if body, ok := subscriptionInfo[tier]; ok {
		return body
	}
	return subscriptionInfo[types.TierBasis]
}

// knowledgeExcerpt keeps the knowledge blocks that mention the start of the message.
func knowledgeExcerpt(knowledge, message string) string {
	if knowledge == "" {
		return ""
	}
	probe := utils.Truncate(strings.ToLower(message), excerptProbeLength)

	var kept []string
	for _, block := range strings.Split(knowledge, "\n\n") {
		if strings.Contains(strings.ToLower(block), probe) {
			kept = append(kept, block)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n\n"))
}

// Personalize substitutes the partner's name for generic references and, on the Basis tier, appends
// the coach upgrade note. Applying it twice gives the same text.
func Personalize(text string, uc types.UserContext) string {
	if uc.PartnerName != "" {
		text = yourPartnerPattern.ReplaceAllLiteralString(text, uc.PartnerName)
		text = thePartnerPattern.ReplaceAllLiteralString(text, uc.PartnerName)
	}
	if uc.Tier() == types.TierBasis && strings.Contains(text, "AI Relationship Coach") && !strings.HasSuffix(text, upgradeNote) {
		text += upgradeNote
	}
	return text
}
