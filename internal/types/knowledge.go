package types

import "time"

// Knowledge content types.
const (
	ContentTypeFAQ    = "faq"
	ContentTypeAdvice = "advice"
)

// KnowledgeEntry is a retrievable snippet. An empty PlatformID means global scope and an empty
// Language means the entry applies to every language.
type KnowledgeEntry struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	ContentType string         `json:"content_type"`
	PlatformID  string         `json:"platform_id,omitempty"`
	Language    string         `json:"language,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// KnowledgeQuery filters a knowledge search.
type KnowledgeQuery struct {
	Keywords   []string
	Language   string
	PlatformID string
	Limit      int
}

// KnowledgeUpdate records the provenance of a knowledge change.
type KnowledgeUpdate struct {
	ID              string    `json:"id"`
	KnowledgeID     string    `json:"knowledge_id"`
	UpdateType      string    `json:"update_type"`
	NewContent      string    `json:"new_content"`
	SourceInsightID string    `json:"source_insight_id"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}
