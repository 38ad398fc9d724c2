package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/mindful/pkg/log"
)

const (
	MemoryBackendLocal = "local"
	MemoryBackendMem0  = "mem0"
)

type MemoryConfig struct {
	Backend     string `env:"MEMORY_BACKEND" envDefault:"local"`
	Mem0APIKey  string `env:"MEM0_API_KEY"`
	Mem0BaseURL string `env:"MEM0_BASE_URL" envDefault:"https://api.mem0.ai"`

	SearchLimit        int `env:"MEMORY_SEARCH_LIMIT" envDefault:"10"`
	TokenBudget        int `env:"MEMORY_TOKEN_BUDGET" envDefault:"512"`
	ExtractionQueueLen int `env:"EXTRACTION_QUEUE_SIZE" envDefault:"64"`
}

func NewMemoryConfig(ctx context.Context) *MemoryConfig {
	c := &MemoryConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Memory config")
	}
	if c.Backend == MemoryBackendMem0 && c.Mem0APIKey == "" {
		log.FromCtx(ctx).Fatal().Msg("MEM0_API_KEY is required when MEMORY_BACKEND=mem0")
	}
	return c
}
