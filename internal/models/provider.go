package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/apperr"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/config"
)

// NewLLM creates the completion provider selected by cfg.Provider.
func NewLLM(ctx context.Context, cfg config.LLMConfig) (model.LLM, error) {
	if cfg.APIKey() == "" {
		return nil, apperr.Configuration(cfg.APIKeyEnv() + " not configured")
	}

	var (
		llm model.LLM
		err error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		llm, err = NewGeminiModel(ctx, cfg.Model, cfg.GoogleAPIKey)
	case config.ProviderOpenAI, "":
		llm, err = NewOpenAIModel(ctx, cfg.Model, cfg.OpenAIBaseURL, &genai.ClientConfig{APIKey: cfg.OpenAIAPIKey})
	default:
		return nil, apperr.Configuration(fmt.Sprintf("unknown AI provider %q", cfg.Provider))
	}
	if err != nil {
		return nil, &apperr.Error{
			Kind:    apperr.KindConfiguration,
			Message: fmt.Sprintf("failed to create %s provider", cfg.Provider),
			Cause:   err,
		}
	}
	return llm, nil
}

// UpstreamError classifies a provider failure. Non-success HTTP statuses keep their code in the
// message; anything else is reported as a transport failure.
func UpstreamError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return apperr.Upstream(fmt.Sprintf("completion provider returned status %d", openaiErr.StatusCode), err)
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return apperr.Upstream(fmt.Sprintf("completion provider returned status %d", genaiErr.Code), err)
	}
	var genaiErrPtr *genai.APIError
	if errors.As(err, &genaiErrPtr) {
		return apperr.Upstream(fmt.Sprintf("completion provider returned status %d", genaiErrPtr.Code), err)
	}
	return apperr.Upstream("completion provider request failed", err)
}
