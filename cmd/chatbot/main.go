// Package main boots the chatbot HTTP service and wires application dependencies.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/chat"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/config"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/learning"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/metrics"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/platform"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/prompt"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/rag"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/responder"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/server"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/storage"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/usercontext"
)

// Version information (set via ldflags during build)
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "chatbot",
		Short:         "One2One Love relationship-coaching chatbot service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	slog.Info("configuration loaded",
		"responder_mode", cfg.ResponderMode,
		"ai_provider", cfg.LLM.Provider,
		"ai_model", cfg.LLM.Model,
		"default_platform", cfg.DefaultPlatformKey,
	)

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	var cache platform.Cache
	if cfg.RedisURL != "" {
		redisCache, err := platform.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			// The cache only saves lookups; run without it.
			slog.Warn("redis unavailable, platform cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
			slog.Info("platform cache enabled", "ttl", cfg.PlatformCacheTTL)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	var reply chat.Responder
	switch cfg.ResponderMode {
	case config.ResponderLLM:
		reply = responder.NewLLMResponder(responder.NewLLMFactory(cfg.LLM), prompt.NewBuilder(cfg.HistoryLimit), cfg.LLM)
	default:
		reply = responder.NewTemplateResponder()
	}

	chatService := chat.NewService(
		store.Conversations,
		platform.NewService(store.Platforms, cache, cfg.PlatformCacheTTL),
		usercontext.NewBuilder(store.Profiles),
		rag.NewRetriever(store.Knowledge, cfg.KnowledgeLimit),
		reply,
		m,
		chat.Options{
			Mode:               cfg.ResponderMode,
			HistoryLimit:       cfg.HistoryLimit,
			DefaultLanguage:    cfg.DefaultLanguage,
			DefaultPlatformKey: cfg.DefaultPlatformKey,
		},
	)
	feedbackService := learning.NewService(store.Conversations, store.Feedback, store.Patterns, store.Insights)

	srv := server.New(chatService, feedbackService, store, server.Options{
		Addr:           cfg.HTTPAddr,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   90 * time.Second,
		Limiter:        server.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Metrics:        m,
		Gatherer:       reg,
		TrustedProxies: cfg.TrustedProxies,
	})

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}
	slog.Info("chatbot shutdown complete")
	return nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
