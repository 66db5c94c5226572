// Package platform resolves tenant configuration and builds tenant personas.
package platform

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/apperr"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// DefaultName is the brand used when no tenant configuration exists.
const DefaultName = "One2One Love"

// PlatformRepo reads and writes tenant configuration rows.
type PlatformRepo interface {
	// GetActiveByKey returns nil when no active platform has the key.
	GetActiveByKey(ctx context.Context, key string) (*types.Platform, error)
	Create(ctx context.Context, p *types.Platform) error
}

// Cache stores resolved platforms between requests.
type Cache interface {
	Get(ctx context.Context, key string) (*types.Platform, error)
	Set(ctx context.Context, key string, p types.Platform, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service looks up tenant configuration with an optional cache in front of the store.
type Service struct {
	repo  PlatformRepo
	cache Cache
	ttl   time.Duration
}

// NewService creates a Service. cache may be nil.
func NewService(repo PlatformRepo, cache Cache, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

// Default returns the built-in configuration for key.
func Default(key string) types.Platform {
	return types.Platform{
		PlatformKey: key,
		Name:        DefaultName,
		IsActive:    true,
	}
}

// Lookup returns the active platform for key or an apperr NotFound error.
func (s *Service) Lookup(ctx context.Context, key string) (types.Platform, error) {
	key = strings.TrimSpace(key)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("platform cache read failed", "platform_key", key, "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	p, err := s.repo.GetActiveByKey(ctx, key)
	if err != nil {
		return types.Platform{}, apperr.Upstream("failed to load platform", err)
	}
	if p == nil {
		return types.Platform{}, apperr.NotFound("platform " + key + " not found")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, *p, s.ttl); err != nil {
			slog.Warn("platform cache write failed", "platform_key", key, "error", err)
		}
	}
	return *p, nil
}

// Resolve returns the tenant configuration for key, degrading to Default when the platform is
// unknown or cannot be loaded.
func (s *Service) Resolve(ctx context.Context, key string) types.Platform {
	p, err := s.Lookup(ctx, key)
	if err == nil {
		return p
	}
	if apperr.Is(err, apperr.KindNotFound) {
		slog.Info("platform not found, using default", "platform_key", key)
	} else {
		slog.Warn("platform lookup failed, using default", "platform_key", key, "error", err)
	}
	return Default(key)
}

// Create registers a new active platform.
func (s *Service) Create(ctx context.Context, p *types.Platform) error {
	if strings.TrimSpace(p.PlatformKey) == "" || strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("platform key and name are required")
	}
	p.IsActive = true
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, p.PlatformKey); err != nil {
			slog.Warn("platform cache delete failed", "platform_key", p.PlatformKey, "error", err)
		}
	}
	return nil
}
