package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// queryPatternModel maps to the chatbot_query_patterns table.
type queryPatternModel struct {
	ID           string  `gorm:"primaryKey"`
	PlatformID   *string `gorm:"uniqueIndex:idx_query_pattern_scope"`
	Pattern      string  `gorm:"uniqueIndex:idx_query_pattern_scope;not null"`
	Category     string
	Language     string `gorm:"uniqueIndex:idx_query_pattern_scope"`
	SuccessCount int    `gorm:"not null;default:0"`
	TotalUses    int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (queryPatternModel) TableName() string {
	return "chatbot_query_patterns"
}

type PatternRepo struct {
	db *gorm.DB
}

func NewPatternRepo(db *gorm.DB) *PatternRepo {
	return &PatternRepo{db: db}
}

// RecordSuccess increments both counters of the pattern in its scope, creating it with 1/1 on
// first use. Increments happen in SQL so concurrent feedback is not lost.
func (r *PatternRepo) RecordSuccess(ctx context.Context, p types.QueryPattern) (types.QueryPattern, error) {
	var out types.QueryPattern
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := incrementPattern(tx, p)
		if err != nil {
			return err
		}
		if !updated {
			record := queryPatternModel{
				ID:           newID(),
				PlatformID:   nullable(p.PlatformID),
				Pattern:      p.Pattern,
				Category:     string(p.Category),
				Language:     p.Language,
				SuccessCount: 1,
				TotalUses:    1,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
			if res.Error != nil {
				return fmt.Errorf("failed to insert query pattern: %w", res.Error)
			}
			// Lost the insert race; the row exists now.
			if res.RowsAffected == 0 {
				if _, err := incrementPattern(tx, p); err != nil {
					return err
				}
			}
		}

		var record queryPatternModel
		if err := scopePatterns(tx, p.PlatformID, p.Language).
			Where("pattern = ?", p.Pattern).
			First(&record).Error; err != nil {
			return fmt.Errorf("failed to reload query pattern: %w", err)
		}
		out = patternFromModel(record)
		return nil
	})
	if err != nil {
		return types.QueryPattern{}, err
	}
	return out, nil
}

func (r *PatternRepo) TopPatterns(ctx context.Context, platformID, language string, limit int) ([]types.QueryPattern, error) {
	var records []queryPatternModel
	if err := scopePatterns(r.db.WithContext(ctx), platformID, language).
		Order("success_count DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	results := make([]types.QueryPattern, 0, len(records))
	for _, record := range records {
		results = append(results, patternFromModel(record))
	}
	return results, nil
}

func incrementPattern(tx *gorm.DB, p types.QueryPattern) (bool, error) {
	res := scopePatterns(tx, p.PlatformID, p.Language).
		Where("pattern = ?", p.Pattern).
		Updates(map[string]any{
			"success_count": gorm.Expr("success_count + ?", 1),
			"total_uses":    gorm.Expr("total_uses + ?", 1),
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update query pattern: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func scopePatterns(tx *gorm.DB, platformID, language string) *gorm.DB {
	tx = tx.Model(&queryPatternModel{}).Where("language = ?", language)
	if platformID == "" {
		return tx.Where("platform_id IS NULL")
	}
	return tx.Where("platform_id = ?", platformID)
}

func patternFromModel(model queryPatternModel) types.QueryPattern {
	return types.QueryPattern{
		ID:           model.ID,
		PlatformID:   deref(model.PlatformID),
		Pattern:      model.Pattern,
		Category:     types.Intent(model.Category),
		Language:     model.Language,
		SuccessCount: model.SuccessCount,
		TotalUses:    model.TotalUses,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
