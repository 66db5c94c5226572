package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// conversationModel maps to the chatbot_conversations table.
type conversationModel struct {
	ID         string  `gorm:"primaryKey"`
	UserID     string  `gorm:"index;not null"`
	PlatformID *string `gorm:"index"`
	Title      string
	Language   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (conversationModel) TableName() string {
	return "chatbot_conversations"
}

// messageModel maps to the chatbot_messages table.
type messageModel struct {
	ID             string `gorm:"primaryKey"`
	ConversationID string `gorm:"index;not null"`
	Role           string `gorm:"not null"`
	Content        string `gorm:"not null"`
	Metadata       datatypes.JSONType[types.MessageMetadata]
	CreatedAt      time.Time `gorm:"index"`
}

func (messageModel) TableName() string {
	return "chatbot_messages"
}

// ConversationRepo accesses conversations and their messages.
type ConversationRepo struct {
	db *gorm.DB
}

// NewConversationRepo returns a ConversationRepo.
func NewConversationRepo(db *gorm.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) CreateConversation(ctx context.Context, conv *types.Conversation) error {
	if conv == nil {
		return fmt.Errorf("conversation cannot be nil")
	}
	record := conversationModel{
		ID:         conv.ID,
		UserID:     conv.UserID,
		PlatformID: nullable(conv.PlatformID),
		Title:      conv.Title,
		Language:   conv.Language,
		CreatedAt:  conv.CreatedAt,
		UpdatedAt:  conv.UpdatedAt,
	}
	if record.ID == "" {
		record.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	*conv = conversationFromModel(record)
	return nil
}

// GetConversation returns nil when no conversation has the id.
func (r *ConversationRepo) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	var record conversationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	conv := conversationFromModel(record)
	return &conv, nil
}

func (r *ConversationRepo) UpdateTitle(ctx context.Context, id, title string) error {
	if err := r.db.WithContext(ctx).
		Model(&conversationModel{}).
		Where("id = ?", id).
		Update("title", title).Error; err != nil {
		return fmt.Errorf("failed to update conversation title: %w", err)
	}
	return nil
}

// ListConversations returns the user's conversations, most recently updated first.
func (r *ConversationRepo) ListConversations(ctx context.Context, userID string) ([]types.Conversation, error) {
	var records []conversationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	results := make([]types.Conversation, 0, len(records))
	for _, record := range records {
		results = append(results, conversationFromModel(record))
	}
	return results, nil
}

// DeleteConversation removes the conversation and its messages.
func (r *ConversationRepo) DeleteConversation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&messageModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&conversationModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		return nil
	})
}

// CreateMessage appends msg and bumps the conversation's updated_at.
func (r *ConversationRepo) CreateMessage(ctx context.Context, msg *types.Message) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}
	record := messageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		Content:        msg.Content,
		Metadata:       datatypes.NewJSONType(msg.Metadata),
		CreatedAt:      msg.CreatedAt,
	}
	if record.ID == "" {
		record.ID = newID()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		if err := tx.Model(&conversationModel{}).
			Where("id = ?", record.ConversationID).
			Update("updated_at", record.CreatedAt).Error; err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	*msg = messageFromModel(record)
	return nil
}

// RecentMessages returns the last limit messages of the conversation, oldest first.
func (r *ConversationRepo) RecentMessages(ctx context.Context, conversationID string, limit int) ([]types.Message, error) {
	var records []messageModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	results := make([]types.Message, 0, len(records))
	for _, record := range records {
		results = append(results, messageFromModel(record))
	}

	// Oldest -> newest
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// ListMessages returns every message of the conversation, oldest first.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]types.Message, error) {
	var records []messageModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	results := make([]types.Message, 0, len(records))
	for _, record := range records {
		results = append(results, messageFromModel(record))
	}
	return results, nil
}

func conversationFromModel(model conversationModel) types.Conversation {
	return types.Conversation{
		ID:         model.ID,
		UserID:     model.UserID,
		PlatformID: deref(model.PlatformID),
		Title:      model.Title,
		Language:   model.Language,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func messageFromModel(model messageModel) types.Message {
	return types.Message{
		ID:             model.ID,
		ConversationID: model.ConversationID,
		Role:           model.Role,
		Content:        model.Content,
		Metadata:       model.Metadata.Data(),
		CreatedAt:      model.CreatedAt,
	}
}
