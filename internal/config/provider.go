package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/mindful/pkg/log"
)

type ProviderConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434/v1"`

	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	return c
}

func (c ProviderConfig) GetProvider() string            { return c.Provider }
func (c ProviderConfig) GetModel() string               { return c.Model }
func (c ProviderConfig) GetOpenAIAPIKey() string        { return c.OpenAIAPIKey }
func (c ProviderConfig) GetAnthropicAPIKey() string     { return c.AnthropicAPIKey }
func (c ProviderConfig) GetGeminiAPIKey() string        { return c.GeminiAPIKey }
func (c ProviderConfig) GetOpenRouterAPIKey() string    { return c.OpenRouterAPIKey }
func (c ProviderConfig) GetOllamaBaseURL() string       { return c.OllamaBaseURL }
func (c ProviderConfig) GetCustomOpenAIBaseURL() string { return c.CustomOpenAIBaseURL }
func (c ProviderConfig) GetCustomOpenAIAPIKey() string  { return c.CustomOpenAIAPIKey }
