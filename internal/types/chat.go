package types

import "time"

// Message roles as persisted in chatbot_messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation is a chat thread owned by a single user.
type Conversation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PlatformID string    `json:"platform_id,omitempty"`
	Title      string    `json:"title"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MessageMetadata is attached to assistant replies.
type MessageMetadata struct {
	Model             string   `json:"model,omitempty"`
	Tokens            int      `json:"tokens,omitempty"`
	FeaturesSuggested []string `json:"features_suggested,omitempty"`
}

// Message is a single immutable turn in a conversation.
type Message struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Role           string          `json:"role"`
	Content        string          `json:"content"`
	Metadata       MessageMetadata `json:"metadata"`
	CreatedAt      time.Time       `json:"created_at"`
}
