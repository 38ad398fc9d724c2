package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/mindful/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"MINDFUL_RUNTIME_PATH" envDefault:".mindful"`
	SiteURL     string `env:"SITE_URL" envDefault:"http://localhost:8080"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableMCP      bool `env:"ENABLE_MCP" envDefault:"false"`

	// Messages of history sent to the model per turn
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"30"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "mindful.db")
}

func (c AppConfig) GetContextWindowSize() int {
	if c.ContextWindowSize <= 0 {
		return 30
	}
	return c.ContextWindowSize
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsMCPSelected() bool {
	return c.EnableMCP
}
