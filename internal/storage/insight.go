package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// UpdateAutoCreated marks knowledge created by promotion.
const UpdateAutoCreated = "auto_created"

// learningInsightModel maps to the chatbot_learning_insights table.
type learningInsightModel struct {
	ID              string  `gorm:"primaryKey"`
	PlatformID      *string `gorm:"index"`
	ConversationID  string  `gorm:"index"`
	InsightType     string  `gorm:"not null"`
	Content         string  `gorm:"not null"`
	Language        string
	Context         datatypes.JSONMap
	ConfidenceScore float64 `gorm:"index"`
	UsageCount      int     `gorm:"not null;default:0"`
	IsApproved      bool    `gorm:"index;not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (learningInsightModel) TableName() string {
	return "chatbot_learning_insights"
}

type InsightRepo struct {
	db *gorm.DB
}

func NewInsightRepo(db *gorm.DB) *InsightRepo {
	return &InsightRepo{db: db}
}

func (r *InsightRepo) CreateInsight(ctx context.Context, insight *types.LearningInsight) error {
	if insight == nil {
		return fmt.Errorf("insight cannot be nil")
	}
	record := learningInsightModel{
		ID:              insight.ID,
		PlatformID:      nullable(insight.PlatformID),
		ConversationID:  insight.ConversationID,
		InsightType:     insight.InsightType,
		Content:         insight.Content,
		Language:        insight.Language,
		Context:         datatypes.JSONMap(insight.Context),
		ConfidenceScore: insight.Confidence,
		UsageCount:      insight.UsageCount,
		IsApproved:      insight.Approved,
	}
	if record.ID == "" {
		record.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}
	*insight = insightFromModel(record)
	return nil
}

// PendingInsights returns unapproved insights at or above minConfidence, most confident first.
// An empty platformID selects every tenant.
func (r *InsightRepo) PendingInsights(ctx context.Context, platformID string, minConfidence float64, limit int) ([]types.LearningInsight, error) {
	tx := r.db.WithContext(ctx).
		Where("is_approved = ? AND confidence_score >= ?", false, minConfidence)
	if platformID != "" {
		tx = tx.Where("platform_id = ?", platformID)
	}

	var records []learningInsightModel
	if err := tx.Order("confidence_score DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	results := make([]types.LearningInsight, 0, len(records))
	for _, record := range records {
		results = append(results, insightFromModel(record))
	}
	return results, nil
}

// Promote creates entry, logs the update and approves the insight atomically. An insight that
// was approved concurrently is left alone and the whole promotion rolls back.
func (r *InsightRepo) Promote(ctx context.Context, insight types.LearningInsight, entry *types.KnowledgeEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&learningInsightModel{}).
			Where("id = ? AND is_approved = ?", insight.ID, false).
			Update("is_approved", true)
		if res.Error != nil {
			return fmt.Errorf("failed to approve insight: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("insight %s is missing or already approved", insight.ID)
		}

		if err := createKnowledge(tx, entry); err != nil {
			return err
		}

		update := knowledgeUpdateModel{
			ID:              newID(),
			KnowledgeID:     entry.ID,
			UpdateType:      UpdateAutoCreated,
			NewContent:      entry.Content,
			SourceInsightID: insight.ID,
			ConfidenceScore: insight.Confidence,
		}
		if err := tx.Create(&update).Error; err != nil {
			return fmt.Errorf("failed to insert knowledge update: %w", err)
		}
		return nil
	})
}

func insightFromModel(model learningInsightModel) types.LearningInsight {
	return types.LearningInsight{
		ID:             model.ID,
		PlatformID:     deref(model.PlatformID),
		ConversationID: model.ConversationID,
		InsightType:    model.InsightType,
		Content:        model.Content,
		Language:       model.Language,
		Context:        map[string]any(model.Context),
		Confidence:     model.ConfidenceScore,
		UsageCount:     model.UsageCount,
		Approved:       model.IsApproved,
		CreatedAt:      model.CreatedAt,
	}
}
