package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// knowledgeModel maps to the chatbot_knowledge table.
type knowledgeModel struct {
	ID          string  `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Content     string  `gorm:"not null"`
	ContentType string  `gorm:"not null"`
	PlatformID  *string `gorm:"index"`
	Language    *string
	Metadata    datatypes.JSONMap
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (knowledgeModel) TableName() string {
	return "chatbot_knowledge"
}

// knowledgeUpdateModel maps to the chatbot_knowledge_updates table.
type knowledgeUpdateModel struct {
	ID              string `gorm:"primaryKey"`
	KnowledgeID     string `gorm:"index;not null"`
	UpdateType      string `gorm:"not null"`
	NewContent      string
	SourceInsightID string
	ConfidenceScore float64
	CreatedAt       time.Time
}

func (knowledgeUpdateModel) TableName() string {
	return "chatbot_knowledge_updates"
}

type KnowledgeRepo struct {
	db *gorm.DB
}

func NewKnowledgeRepo(db *gorm.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

// Search matches any keyword against title or content, case-insensitively. Entries scoped to
// another tenant or tagged with another language are excluded. Newest entries come first.
func (r *KnowledgeRepo) Search(ctx context.Context, query types.KnowledgeQuery) ([]types.KnowledgeEntry, error) {
	tx := r.db.WithContext(ctx).Model(&knowledgeModel{})

	if len(query.Keywords) > 0 {
		clauses := make([]string, 0, len(query.Keywords))
		args := make([]any, 0, 2*len(query.Keywords))
		for _, kw := range query.Keywords {
			pattern := "%" + strings.ToLower(kw) + "%"
			clauses = append(clauses, "(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)")
			args = append(args, pattern, pattern)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if query.Language != "" {
		tx = tx.Where("(language = ? OR language IS NULL)", query.Language)
	}
	if query.PlatformID != "" {
		tx = tx.Where("(platform_id = ? OR platform_id IS NULL)", query.PlatformID)
	} else {
		tx = tx.Where("platform_id IS NULL")
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var records []knowledgeModel
	if err := tx.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to search knowledge: %w", err)
	}

	results := make([]types.KnowledgeEntry, 0, len(records))
	for _, record := range records {
		results = append(results, knowledgeFromModel(record))
	}
	return results, nil
}

// Create inserts a knowledge entry. It is used by seeding and promotion.
func (r *KnowledgeRepo) Create(ctx context.Context, entry *types.KnowledgeEntry) error {
	return createKnowledge(r.db.WithContext(ctx), entry)
}

// Updates returns the provenance log of a knowledge entry, oldest first.
func (r *KnowledgeRepo) Updates(ctx context.Context, knowledgeID string) ([]types.KnowledgeUpdate, error) {
	var records []knowledgeUpdateModel
	if err := r.db.WithContext(ctx).
		Where("knowledge_id = ?", knowledgeID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list knowledge updates: %w", err)
	}
	results := make([]types.KnowledgeUpdate, 0, len(records))
	for _, record := range records {
		results = append(results, types.KnowledgeUpdate{
			ID:              record.ID,
			KnowledgeID:     record.KnowledgeID,
			UpdateType:      record.UpdateType,
			NewContent:      record.NewContent,
			SourceInsightID: record.SourceInsightID,
			ConfidenceScore: record.ConfidenceScore,
			CreatedAt:       record.CreatedAt,
		})
	}
	return results, nil
}

func createKnowledge(tx *gorm.DB, entry *types.KnowledgeEntry) error {
	if entry == nil {
		return fmt.Errorf("knowledge entry cannot be nil")
	}
	record := knowledgeModel{
		ID:          entry.ID,
		Title:       entry.Title,
		Content:     entry.Content,
		ContentType: entry.ContentType,
		PlatformID:  nullable(entry.PlatformID),
		Language:    nullable(entry.Language),
		Metadata:    datatypes.JSONMap(entry.Metadata),
		CreatedAt:   entry.CreatedAt,
	}
	if record.ID == "" {
		record.ID = newID()
	}
	if err := tx.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert knowledge: %w", err)
	}
	*entry = knowledgeFromModel(record)
	return nil
}

func knowledgeFromModel(model knowledgeModel) types.KnowledgeEntry {
	return types.KnowledgeEntry{
		ID:          model.ID,
		Title:       model.Title,
		Content:     model.Content,
		ContentType: model.ContentType,
		PlatformID:  deref(model.PlatformID),
		Language:    deref(model.Language),
		Metadata:    map[string]any(model.Metadata),
		CreatedAt:   model.CreatedAt,
	}
}
