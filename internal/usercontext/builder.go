// Package usercontext gathers per-user state used to personalize replies.
package usercontext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

const (
	maxGoals      = 5
	maxMilestones = 5
)

// ProfileRepo reads profile, goal and milestone rows.
type ProfileRepo interface {
	// GetProfile returns nil when the user has no profile row.
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	// ActiveGoals returns active goals newest first.
	ActiveGoals(ctx context.Context, userID string, limit int) ([]types.Goal, error)
	// UpcomingMilestones returns milestones dated at or after from, soonest first.
	UpcomingMilestones(ctx context.Context, userID string, from time.Time, limit int) ([]types.Milestone, error)
}

// Builder assembles a UserContext from the profile store.
type Builder struct {
	repo    ProfileRepo
	nowFunc func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(repo ProfileRepo) *Builder {
	return &Builder{repo: repo, nowFunc: time.Now}
}

// Build returns the user's context. Lookups run in order; when one fails the context gathered so
// far is returned together with the error.
func (b *Builder) Build(ctx context.Context, userID string) types.Enrichment[types.UserContext] {
	uc := types.DefaultUserContext()

	profile, err := b.repo.GetProfile(ctx, userID)
	if err != nil {
		return b.partial(uc, userID, "profile", err)
	}
	if profile != nil {
		if tier := strings.TrimSpace(profile.SubscriptionTier); tier != "" {
			uc.SubscriptionTier = tier
		}
		uc.PartnerName = strings.TrimSpace(profile.PartnerName)
		uc.Language = profile.Language
	}

	goals, err := b.repo.ActiveGoals(ctx, userID, maxGoals)
	if err != nil {
		return b.partial(uc, userID, "goals", err)
	}
	for _, g := range goals {
		g.Progress = clampProgress(g.Progress)
		uc.ActiveGoals = append(uc.ActiveGoals, g)
	}

	milestones, err := b.repo.UpcomingMilestones(ctx, userID, b.nowFunc(), maxMilestones)
	if err != nil {
		return b.partial(uc, userID, "milestones", err)
	}
	uc.UpcomingMilestones = append(uc.UpcomingMilestones, milestones...)

	return types.Enrichment[types.UserContext]{Value: uc}
}

func (b *Builder) partial(uc types.UserContext, userID, step string, err error) types.Enrichment[types.UserContext] {
	slog.Warn("user context lookup failed", "user_id", userID, "step", step, "error", err)
	return types.Enrichment[types.UserContext]{
		Value: uc,
		Err:   fmt.Errorf("failed to load %s: %w", step, err),
	}
}

func clampProgress(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
