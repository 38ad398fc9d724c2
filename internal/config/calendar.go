package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/mindful/pkg/log"
)

const (
	CalendarBackendGoogle  = "google"
	CalendarBackendFixture = "fixture"
)

type CalendarConfig struct {
	Backend        string `env:"CALENDAR_BACKEND" envDefault:"google"`
	DefaultPersona string `env:"CALENDAR_DEFAULT_PERSONA" envDefault:"alex"`
	ClientID       string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
}

func NewCalendarConfig(ctx context.Context) *CalendarConfig {
	c := &CalendarConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Calendar config")
	}
	return c
}
