package types

import "time"

// Subscription tiers.
const (
	TierBasis     = "Basis"
	TierPremiere  = "Premiere"
	TierExclusive = "Exclusive"
)

// Goal is an active relationship goal.
type Goal struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// Milestone is an upcoming date the couple tracks.
type Milestone struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// UserContext is the per-request snapshot of user state. It is never cached.
type UserContext struct {
	SubscriptionTier   string      `json:"subscription_tier"`
	PartnerName        string      `json:"partner_name,omitempty"`
	ActiveGoals        []Goal      `json:"active_goals"`
	UpcomingMilestones []Milestone `json:"upcoming_milestones"`
	Language           string      `json:"language,omitempty"`
}

// DefaultUserContext returns the context used when nothing is known about a user.
func DefaultUserContext() UserContext {
	return UserContext{
		SubscriptionTier:   TierBasis,
		ActiveGoals:        []Goal{},
		UpcomingMilestones: []Milestone{},
	}
}

// Tier returns the subscription tier, defaulting to Basis.
func (c UserContext) Tier() string {
	if c.SubscriptionTier == "" {
		return TierBasis
	}
	return c.SubscriptionTier
}

// Profile is the subset of the profiles table the chatbot reads.
type Profile struct {
	UserID           string `json:"user_id"`
	SubscriptionTier string `json:"subscription_tier"`
	PartnerName      string `json:"partner_name"`
	Language         string `json:"language"`
}
