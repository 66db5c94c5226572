package types

import "time"

// Feedback types accepted by the feedback endpoint.
const (
	FeedbackHelpful    = "helpful"
	FeedbackNotHelpful = "not_helpful"
	FeedbackIncorrect  = "incorrect"
	FeedbackSuggestion = "suggestion"
)

// ValidFeedbackType reports whether t is a known feedback type.
func ValidFeedbackType(t string) bool {
	switch t {
	case FeedbackHelpful, FeedbackNotHelpful, FeedbackIncorrect, FeedbackSuggestion:
		return true
	default:
		return false
	}
}

// Insight types.
const (
	InsightQuestion = "question"
	InsightAdvice   = "advice"
)

// Feedback is an append-only rating of an assistant reply.
type Feedback struct {
	ID             string    `json:"id"`
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	FeedbackType   string    `json:"feedback_type"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// QueryPattern is a normalized question with its success statistics.
// SuccessCount never exceeds TotalUses.
type QueryPattern struct {
	ID           string    `json:"id"`
	PlatformID   string    `json:"platform_id,omitempty"`
	Pattern      string    `json:"pattern"`
	Category     Intent    `json:"category"`
	Language     string    `json:"language"`
	SuccessCount int       `json:"success_count"`
	TotalUses    int       `json:"total_uses"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SuccessRate returns SuccessCount/TotalUses, or 0 for an unused pattern.
func (p QueryPattern) SuccessRate() float64 {
	if p.TotalUses <= 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(p.TotalUses)
}

// LearningInsight is a candidate knowledge snippet awaiting promotion.
type LearningInsight struct {
	ID             string         `json:"id"`
	PlatformID     string         `json:"platform_id,omitempty"`
	ConversationID string         `json:"conversation_id"`
	InsightType    string         `json:"insight_type"`
	Content        string         `json:"content"`
	Language       string         `json:"language"`
	Context        map[string]any `json:"context,omitempty"`
	Confidence     float64        `json:"confidence"`
	UsageCount     int            `json:"usage_count"`
	Approved       bool           `json:"is_approved"`
	CreatedAt      time.Time      `json:"created_at"`
}
