package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/config"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/platform"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

const defaultMission = "Helping couples build stronger relationships."

func defaultBranding() map[string]any {
	return map[string]any{
		"primary_color":   "#3b82f6",
		"secondary_color": "#8b5cf6",
		"gradient":        "from-blue-500 to-purple-600",
	}
}

type platformFlags struct {
	key          string
	name         string
	domain       string
	mission      string
	systemPrompt string
	features     string
	tiersJSON    string
}

func newCreatePlatformCmd() *cobra.Command {
	var f platformFlags
	cmd := &cobra.Command{
		Use:   "create-platform",
		Short: "Register a new tenant platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := f.platform()
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var cache platform.Cache
			if cfg, err := config.Load(); err == nil && cfg.RedisURL != "" {
				if redisCache, err := platform.NewRedisCache(ctx, cfg.RedisURL); err == nil {
					defer redisCache.Close()
					cache = redisCache
				}
			}

			if err := platform.NewService(store.Platforms, cache, 0).Create(ctx, &p); err != nil {
				return err
			}
			fmt.Printf("Created platform %s (%s)\n", p.PlatformKey, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.key, "key", "", "Unique platform key (required)")
	cmd.Flags().StringVar(&f.name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&f.domain, "domain", "", "Platform domain")
	cmd.Flags().StringVar(&f.mission, "mission", defaultMission, "Mission statement")
	cmd.Flags().StringVar(&f.systemPrompt, "system-prompt", "", "Custom system prompt replacing the default persona")
	cmd.Flags().StringVar(&f.features, "features", "", "Comma-separated feature list")
	cmd.Flags().StringVar(&f.tiersJSON, "tiers", "", "Subscription tiers as a JSON object")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (f platformFlags) platform() (types.Platform, error) {
	p := types.Platform{
		PlatformKey:      strings.TrimSpace(f.key),
		Name:             strings.TrimSpace(f.name),
		Domain:           strings.TrimSpace(f.domain),
		Branding:         defaultBranding(),
		MissionStatement: f.mission,
		SystemPrompt:     f.systemPrompt,
		Features:         splitList(f.features),
	}
	if f.tiersJSON != "" {
		if !json.Valid([]byte(f.tiersJSON)) {
			return types.Platform{}, fmt.Errorf("--tiers must be valid JSON")
		}
		p.SubscriptionTiers = json.RawMessage(f.tiersJSON)
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
