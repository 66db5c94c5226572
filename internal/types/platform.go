package types

import (
	"encoding/json"
	"time"
)

// Platform is a branded tenant deployment of the chatbot.
type Platform struct {
	ID                string          `json:"id"`
	PlatformKey       string          `json:"platform_key"`
	Name              string          `json:"name"`
	Domain            string          `json:"domain,omitempty"`
	Branding          map[string]any  `json:"branding,omitempty"`
	MissionStatement  string          `json:"mission_statement,omitempty"`
	Features          []string        `json:"features,omitempty"`
	SubscriptionTiers json.RawMessage `json:"subscription_tiers,omitempty"`
	SystemPrompt      string          `json:"system_prompt,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
}

// IsDefault reports whether p is the built-in configuration rather than a stored tenant.
func (p Platform) IsDefault() bool {
	return p.ID == ""
}
