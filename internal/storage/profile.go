package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// Goal statuses.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

// profileModel maps to the profiles table. The id column is the user id.
type profileModel struct {
	ID               string `gorm:"primaryKey"`
	SubscriptionTier string
	PartnerName      string
	Language         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (profileModel) TableName() string {
	return "profiles"
}

// goalModel maps to the relationship_goals table.
type goalModel struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Progress  int
	Status    string `gorm:"index"`
	CreatedAt time.Time
}

func (goalModel) TableName() string {
	return "relationship_goals"
}

// milestoneModel maps to the milestones table.
type milestoneModel struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"index;not null"`
	Title     string    `gorm:"not null"`
	Date      time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (milestoneModel) TableName() string {
	return "milestones"
}

// ProfileRepo reads the user profile tables owned by the main application.
type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetProfile returns nil when the user has no profile.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	var record profileModel
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &types.Profile{
		UserID:           record.ID,
		SubscriptionTier: record.SubscriptionTier,
		PartnerName:      record.PartnerName,
		Language:         record.Language,
	}, nil
}

// UpsertProfile writes the profile row. Only seeding and tests write profiles.
func (r *ProfileRepo) UpsertProfile(ctx context.Context, p types.Profile) error {
	record := profileModel{
		ID:               p.UserID,
		SubscriptionTier: p.SubscriptionTier,
		PartnerName:      p.PartnerName,
		Language:         p.Language,
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) ActiveGoals(ctx context.Context, userID string, limit int) ([]types.Goal, error) {
	var records []goalModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, GoalActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	results := make([]types.Goal, 0, len(records))
	for _, record := range records {
		results = append(results, types.Goal{ID: record.ID, Title: record.Title, Progress: record.Progress})
	}
	return results, nil
}

// AddGoal inserts a goal with the given status.
func (r *ProfileRepo) AddGoal(ctx context.Context, userID, title, status string) (types.Goal, error) {
	record := goalModel{ID: newID(), UserID: userID, Title: title, Status: status}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return types.Goal{}, fmt.Errorf("failed to insert goal: %w", err)
	}
	return types.Goal{ID: record.ID, Title: record.Title, Progress: record.Progress}, nil
}

func (r *ProfileRepo) UpcomingMilestones(ctx context.Context, userID string, from time.Time, limit int) ([]types.Milestone, error) {
	var records []milestoneModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, from).
		Order("date ASC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	results := make([]types.Milestone, 0, len(records))
	for _, record := range records {
		results = append(results, types.Milestone{ID: record.ID, Title: record.Title, Date: record.Date})
	}
	return results, nil
}

// AddMilestone inserts a milestone.
func (r *ProfileRepo) AddMilestone(ctx context.Context, userID, title string, date time.Time) (types.Milestone, error) {
	record := milestoneModel{ID: newID(), UserID: userID, Title: title, Date: date}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return types.Milestone{}, fmt.Errorf("failed to insert milestone: %w", err)
	}
	return types.Milestone{ID: record.ID, Title: record.Title, Date: record.Date}, nil
}
