package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/log"
)

// NewProvider creates the AIProvider selected by configuration.
func NewProvider(ctx context.Context, cfg core.ProviderConfig, siteURL string) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.GetProvider()).
		Str("model", cfg.GetModel()).
		Msg("starting llm provider")

	switch cfg.GetProvider() {
	case "openai":
		return NewOpenAI(cfg.GetOpenAIAPIKey(), cfg.GetModel()), nil
	case "anthropic":
		return NewAnthropic(cfg.GetAnthropicAPIKey(), cfg.GetModel()), nil
	case "gemini":
		return NewGemini(ctx, cfg.GetGeminiAPIKey(), cfg.GetModel())
	case "openrouter":
		return NewOpenRouter(cfg.GetOpenRouterAPIKey(), cfg.GetModel(), siteURL), nil
	case "ollama":
		return NewOllama(cfg.GetOllamaBaseURL(), cfg.GetModel()), nil
	case "custom":
		if cfg.GetCustomOpenAIBaseURL() == "" {
			return nil, fmt.Errorf("custom provider needs CUSTOM_OPENAI_BASE_URL: %w", core.ErrInvalidInput)
		}
		return NewCustomOpenAI(cfg.GetCustomOpenAIBaseURL(), cfg.GetCustomOpenAIAPIKey(), cfg.GetModel()), nil
	case "echo":
		return NewEcho(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.GetProvider())
	}
}
