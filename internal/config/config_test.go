package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://chatbot@localhost:5432/chatbot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ResponderTemplate, cfg.ResponderMode)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4-turbo-preview", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, "one2onelove", cfg.DefaultPlatformKey)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 3, cfg.KnowledgeLimit)
	assert.InDelta(t, 0.7, cfg.PromotionMinConfidence, 1e-9)
	assert.Equal(t, 10, cfg.PromotionBatchSize)
	assert.Equal(t, 5*time.Minute, cfg.PlatformCacheTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadTrustedProxies(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://chatbot@localhost:5432/chatbot")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 203.0.113.7,,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.TrustedProxies, 2)
	assert.Equal(t, "10.0.0.0/8", cfg.TrustedProxies[0].String())
	assert.Equal(t, "203.0.113.7/32", cfg.TrustedProxies[1].String())

	t.Setenv("TRUSTED_PROXIES", "not-a-network")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://chatbot@localhost:5432/chatbot")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("CHATBOT_TEMPERATURE", "0.2")
	t.Setenv("CHATBOT_MAX_TOKENS", "256")
	t.Setenv("RESPONDER_MODE", "llm")
	t.Setenv("PLATFORM_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "g-key", cfg.LLM.APIKey())
	assert.Equal(t, "GOOGLE_API_KEY", cfg.LLM.APIKeyEnv())
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 256, cfg.LLM.MaxTokens)
	assert.Equal(t, ResponderLLM, cfg.ResponderMode)
	assert.Equal(t, 30*time.Second, cfg.PlatformCacheTTL)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/chatbot")
		t.Setenv("AI_PROVIDER", "anthropic")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AI_PROVIDER")
	})

	t.Run("unknown responder mode", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/chatbot")
		t.Setenv("RESPONDER_MODE", "magic")
		_, err := Load()
		require.Error(t, err)
	})
}
