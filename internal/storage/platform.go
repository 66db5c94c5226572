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

// platformModel maps to the chatbot_platforms table.
type platformModel struct {
	ID                string `gorm:"primaryKey"`
	PlatformKey       string `gorm:"uniqueIndex;not null"`
	Name              string `gorm:"not null"`
	Domain            string
	Branding          datatypes.JSONMap
	MissionStatement  string
	Features          datatypes.JSONSlice[string]
	SubscriptionTiers datatypes.JSON
	SystemPrompt      string
	IsActive          bool `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (platformModel) TableName() string {
	return "chatbot_platforms"
}

type PlatformRepo struct {
	db *gorm.DB
}

func NewPlatformRepo(db *gorm.DB) *PlatformRepo {
	return &PlatformRepo{db: db}
}

// GetActiveByKey returns nil when no active platform has the key.
func (r *PlatformRepo) GetActiveByKey(ctx context.Context, key string) (*types.Platform, error) {
	var record platformModel
	err := r.db.WithContext(ctx).
		Where("platform_key = ? AND is_active = ?", key, true).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get platform: %w", err)
	}
	p := platformFromModel(record)
	return &p, nil
}

func (r *PlatformRepo) Create(ctx context.Context, p *types.Platform) error {
	if p == nil {
		return fmt.Errorf("platform cannot be nil")
	}
	record := platformModel{
		ID:                p.ID,
		PlatformKey:       p.PlatformKey,
		Name:              p.Name,
		Domain:            p.Domain,
		Branding:          datatypes.JSONMap(p.Branding),
		MissionStatement:  p.MissionStatement,
		Features:          datatypes.NewJSONSlice(p.Features),
		SubscriptionTiers: datatypes.JSON(p.SubscriptionTiers),
		SystemPrompt:      p.SystemPrompt,
		IsActive:          p.IsActive,
	}
	if record.ID == "" {
		record.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert platform: %w", err)
	}
	*p = platformFromModel(record)
	return nil
}

// List returns every platform ordered by key.
func (r *PlatformRepo) List(ctx context.Context) ([]types.Platform, error) {
	var records []platformModel
	if err := r.db.WithContext(ctx).Order("platform_key ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	results := make([]types.Platform, 0, len(records))
	for _, record := range records {
		results = append(results, platformFromModel(record))
	}
	return results, nil
}

func platformFromModel(model platformModel) types.Platform {
	return types.Platform{
		ID:                model.ID,
		PlatformKey:       model.PlatformKey,
		Name:              model.Name,
		Domain:            model.Domain,
		Branding:          map[string]any(model.Branding),
		MissionStatement:  model.MissionStatement,
		Features:          []string(model.Features),
		SubscriptionTiers: []byte(model.SubscriptionTiers),
		SystemPrompt:      model.SystemPrompt,
		IsActive:          model.IsActive,
		CreatedAt:         model.CreatedAt,
	}
}
