package platform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

const brandAnchor = "a platform designed to help"

// DefaultSystemPrompt is the persona used when a tenant has no custom prompt.
const DefaultSystemPrompt = `You are a warm, empathetic and knowledgeable relationship assistant for a platform designed to help committed couples deepen their connection, work through conflict and build lasting love.

**Personality:**
- Warm and encouraging; celebrate progress
- Knowledgeable about relationships without being clinical
- Non-judgmental and inclusive of every kind of couple

**Communication style:**
- Natural, friendly conversation
- Concrete, actionable suggestions
- Respectful of boundaries and cultural background

**Guidelines:**
- Answer in the user's preferred language (EN, ES, FR, IT, DE, NL, PT)
- Keep the user's subscription tier and its limits in mind
- Point to platform features when they genuinely help, with clear next steps
- If someone describes abuse or danger, share crisis resources and hotlines
- You are not a therapist; recommend professional help when it is needed
- Ask clarifying questions when a request is ambiguous

**Format:**
- Short, clear answers; use lists or steps when they help
- Use emojis sparingly (💕, 😊, 💡)
- End with a follow-up question when it moves the conversation forward`

// SystemPrompt returns the persona for p. A tenant's custom prompt is used verbatim; otherwise the
// default persona is branded and extended with the tenant's mission, features and tiers.
func SystemPrompt(p types.Platform) string {
	if strings.TrimSpace(p.SystemPrompt) != "" {
		return p.SystemPrompt
	}
	if p.IsDefault() {
		return DefaultSystemPrompt
	}

	var sb strings.Builder
	sb.WriteString(strings.Replace(DefaultSystemPrompt, brandAnchor, p.Name+", "+brandAnchor, 1))

	if p.MissionStatement != "" {
		fmt.Fprintf(&sb, "\n\n**Platform Mission:**\n\"%s\"", p.MissionStatement)
	}

	if len(p.Features) > 0 {
		sb.WriteString("\n\n**Platform Features:**\n")
		for i, f := range p.Features {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, f)
		}
	}

	if tiers := decodeTiers(p.SubscriptionTiers); len(tiers) > 0 {
		sb.WriteString("\n\n**Subscription Tiers:**\n")
		names := make([]string, 0, len(tiers))
		for name := range tiers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "- **%s**: %s\n", name, string(tiers[name]))
		}
	}

	return sb.String()
}

func decodeTiers(raw json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var tiers map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return nil
	}
	return tiers
}
