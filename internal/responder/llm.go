package responder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/config"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/features"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/models"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/platform"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/prompt"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/utils"
)

// EmptyCompletionReply is returned when the provider answers with no text.
const EmptyCompletionReply = "I apologize, but I couldn't generate a response."

// LLMFactory returns the completion provider for one request.
type LLMFactory func(ctx context.Context) (model.LLM, error)

// NewLLMFactory selects the provider from cfg on every call.
func NewLLMFactory(cfg config.LLMConfig) LLMFactory {
	return func(ctx context.Context) (model.LLM, error) {
		return models.NewLLM(ctx, cfg)
	}
}

// LLMResponder answers through a hosted chat-completion model.
type LLMResponder struct {
	newLLM      LLMFactory
	builder     *prompt.Builder
	temperature float32
	maxTokens   int32
}

// NewLLMResponder creates an LLMResponder.
func NewLLMResponder(newLLM LLMFactory, builder *prompt.Builder, cfg config.LLMConfig) *LLMResponder {
	return &LLMResponder{
		newLLM:      newLLM,
		builder:     builder,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}
}

// Respond performs one blocking completion. A missing credential is returned as a configuration
// error and provider failures as upstream errors.
func (r *LLMResponder) Respond(ctx context.Context, q Query) (Reply, error) {
	system, err := prompt.BuildSystemMessage(prompt.SystemData{
		Persona:   platform.SystemPrompt(q.Platform),
		Context:   &q.Context,
		Knowledge: q.Knowledge,
		Language:  q.Language,
	})
	if err != nil {
		return Reply{}, err
	}

	llm, err := r.newLLM(ctx)
	if err != nil {
		return Reply{}, err
	}

	temperature := r.temperature
	req := &model.LLMRequest{
		Model:    llm.Name(),
		Contents: r.builder.Build(q.History, q.Message),
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			Temperature:       &temperature,
			MaxOutputTokens:   r.maxTokens,
		},
	}

	var (
		resp   *model.LLMResponse
		genErr error
	)
	seq := llm.GenerateContent(ctx, req, false)
	seq(func(res *model.LLMResponse, err error) bool {
		if err != nil {
			genErr = err
			return false
		}
		resp = res
		return res != nil && res.Partial
	})
	if genErr != nil {
		slog.Error("completion failed", "model", llm.Name(), "error", genErr)
		return Reply{}, models.UpstreamError(fmt.Errorf("failed to generate reply: %w", genErr))
	}

	var text string
	var tokens int
	if resp != nil {
		text = strings.TrimSpace(utils.ExtractContentText(resp.Content))
		if resp.UsageMetadata != nil {
			tokens = int(resp.UsageMetadata.TotalTokenCount)
		}
	}
	if text == "" {
		text = EmptyCompletionReply
	}

	return Reply{
		Content:           text,
		Model:             llm.Name(),
		Tokens:            tokens,
		FeaturesSuggested: features.Extract(text),
	}, nil
}
