// Package storage implements the chatbot repositories on gorm.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store holds the DB handle and repositories.
type Store struct {
	db            *gorm.DB
	Conversations *ConversationRepo
	Knowledge     *KnowledgeRepo
	Profiles      *ProfileRepo
	Platforms     *PlatformRepo
	Patterns      *PatternRepo
	Insights      *InsightRepo
	Feedback      *FeedbackRepo
}

// NewStore connects to PostgreSQL and initializes the repositories.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	return Open(ctx, postgres.Open(databaseURL), &gorm.Config{})
}

// Open initializes a Store over any gorm dialector.
func Open(ctx context.Context, dialector gorm.Dialector, cfg *gorm.Config) (*Store, error) {
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		db:            db,
		Conversations: NewConversationRepo(db),
		Knowledge:     NewKnowledgeRepo(db),
		Profiles:      NewProfileRepo(db),
		Platforms:     NewPlatformRepo(db),
		Patterns:      NewPatternRepo(db),
		Insights:      NewInsightRepo(db),
		Feedback:      NewFeedbackRepo(db),
	}, nil
}

// AutoMigrate creates or updates every chatbot table from the gorm models.
func (s *Store) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&platformModel{},
		&conversationModel{},
		&messageModel{},
		&knowledgeModel{},
		&knowledgeUpdateModel{},
		&profileModel{},
		&goalModel{},
		&milestoneModel{},
		&queryPatternModel{},
		&learningInsightModel{},
		&feedbackModel{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

func newID() string {
	return uuid.NewString()
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
