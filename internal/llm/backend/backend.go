// Package backend builds the configured model provider.
package backend

import (
	"context"
	"fmt"

	"signal-analyzer/internal/config"
	"signal-analyzer/internal/llm"
	"signal-analyzer/internal/llm/gemini"
	"signal-analyzer/internal/llm/openai"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// New returns the provider selected by cfg.Provider with the configured
// model tiers overlaid on that provider's defaults.
func New(ctx context.Context, cfg *config.Config, tracer trace.Tracer, logger zerolog.Logger) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		c, err := openai.NewClient(tracer, logger, openai.Options{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			Tiers:     cfg.Tiers(openai.DefaultTiers()),
			NewsModel: cfg.NewsModel,
			ChatModel: cfg.ChatModel,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderGemini, "":
		c, err := gemini.NewClient(ctx, tracer, logger, gemini.Options{
			APIKey:    cfg.GeminiAPIKey,
			Tiers:     cfg.Tiers(llm.DefaultTiers()),
			NewsModel: cfg.NewsModel,
			ChatModel: cfg.ChatModel,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %s", cfg.Provider)
	}
}
