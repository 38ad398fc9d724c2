package calendar

import (
	"context"
	"fmt"

	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/internal/core"
	"google.golang.org/api/option"
)

// Provider picks the calendar source for a request: a fixture persona when
// one is requested or the fixture backend is configured, otherwise the
// user's Google calendar.
type Provider struct {
	cfg        *config.CalendarConfig
	fixtures   *Fixtures
	googleOpts []option.ClientOption
}

func NewProvider(cfg *config.CalendarConfig, fixtures *Fixtures, googleOpts ...option.ClientOption) *Provider {
	return &Provider{cfg: cfg, fixtures: fixtures, googleOpts: googleOpts}
}

func (p *Provider) ForSession(ctx context.Context, meta core.SessionMeta) (core.CalendarSource, error) {
	if meta.Persona != "" || p.cfg.Backend == config.CalendarBackendFixture {
		persona := meta.Persona
		if persona == "" {
			persona = p.cfg.DefaultPersona
		}
		return p.fixtures.Persona(persona)
	}

	if meta.AccessToken == "" {
		return nil, fmt.Errorf("no calendar access token: %w", core.ErrCalendarUnauthorized)
	}
	return NewGoogle(ctx, p.cfg.ClientID, p.cfg.ClientSecret, meta.AccessToken, p.googleOpts...)
}
