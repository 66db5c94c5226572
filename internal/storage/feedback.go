package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// feedbackModel maps to the chatbot_feedback table. Rows are never updated.
type feedbackModel struct {
	ID             string `gorm:"primaryKey"`
	MessageID      string `gorm:"index;not null"`
	ConversationID string `gorm:"index;not null"`
	UserID         string `gorm:"index"`
	FeedbackType   string `gorm:"not null"`
	Rating         int    `gorm:"not null"`
	Comment        string
	CreatedAt      time.Time
}

func (feedbackModel) TableName() string {
	return "chatbot_feedback"
}

type FeedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

func (r *FeedbackRepo) CreateFeedback(ctx context.Context, fb *types.Feedback) error {
	if fb == nil {
		return fmt.Errorf("feedback cannot be nil")
	}
	record := feedbackModel{
		ID:             fb.ID,
		MessageID:      fb.MessageID,
		ConversationID: fb.ConversationID,
		UserID:         fb.UserID,
		FeedbackType:   fb.FeedbackType,
		Rating:         fb.Rating,
		Comment:        fb.Comment,
	}
	if record.ID == "" {
		record.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	fb.ID = record.ID
	fb.CreatedAt = record.CreatedAt
	return nil
}

// ForMessage returns the ratings of a message, oldest first.
func (r *FeedbackRepo) ForMessage(ctx context.Context, messageID string) ([]types.Feedback, error) {
	var records []feedbackModel
	if err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	results := make([]types.Feedback, 0, len(records))
	for _, record := range records {
		results = append(results, types.Feedback{
			ID:             record.ID,
			MessageID:      record.MessageID,
			ConversationID: record.ConversationID,
			UserID:         record.UserID,
			FeedbackType:   record.FeedbackType,
			Rating:         record.Rating,
			Comment:        record.Comment,
			CreatedAt:      record.CreatedAt,
		})
	}
	return results, nil
}
