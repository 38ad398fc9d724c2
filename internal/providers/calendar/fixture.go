package calendar

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/mindful/internal/core"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

type personaFile struct {
	Name     string         `yaml:"name"`
	Timezone string         `yaml:"timezone"`
	Events   []fixtureEvent `yaml:"events"`
}

// fixtureEvent is placed relative to the current day so demo calendars
// never go stale.
type fixtureEvent struct {
	Summary     string   `yaml:"summary"`
	DayOffset   int      `yaml:"day_offset"`
	Time        string   `yaml:"time"`
	Duration    string   `yaml:"duration"`
	AllDay      bool     `yaml:"all_day"`
	Location    string   `yaml:"location"`
	Description string   `yaml:"description"`
	Attendees   []string `yaml:"attendees"`
}

// Fixtures holds the persona calendars.
type Fixtures struct {
	personas map[string]personaFile
	clock    func() time.Time
}

// LoadFixtures reads every persona bundled with the binary.
func LoadFixtures() (*Fixtures, error) {
	return LoadFixturesFS(fixtureFS, "fixtures")
}

func LoadFixturesFS(fsys fs.FS, dir string) (*Fixtures, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	f := &Fixtures{personas: make(map[string]personaFile), clock: time.Now}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var p personaFile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		key := strings.TrimSuffix(e.Name(), ".yaml")
		f.personas[key] = p
	}
	return f, nil
}

// Personas lists the persona keys in lexical order.
func (f *Fixtures) Personas() []string {
	names := make([]string, 0, len(f.personas))
	for k := range f.personas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Persona returns the calendar source for one persona.
func (f *Fixtures) Persona(name string) (*FixtureSource, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	p, ok := f.personas[key]
	if !ok {
		return nil, fmt.Errorf("persona %q: %w", name, core.ErrNotFound)
	}
	loc := time.Local
	if p.Timezone != "" {
		if l, err := time.LoadLocation(p.Timezone); err == nil {
			loc = l
		}
	}
	return &FixtureSource{persona: p, loc: loc, clock: f.clock}, nil
}

// FixtureSource serves a persona calendar. It never fails to connect.
type FixtureSource struct {
	persona personaFile
	loc     *time.Location
	clock   func() time.Time
}

func (s *FixtureSource) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *FixtureSource) events(now time.Time) []core.CalendarEvent {
	now = now.In(s.loc)
	today, _ := dayBounds(now)

	out := make([]core.CalendarEvent, 0, len(s.persona.Events))
	for _, fe := range s.persona.Events {
		day := today.AddDate(0, 0, fe.DayOffset)
		ev := core.CalendarEvent{
			Summary:     fe.Summary,
			Location:    fe.Location,
			Description: fe.Description,
			Attendees:   fe.Attendees,
		}

		clock, err := time.Parse("15:04", fe.Time)
		if fe.AllDay || fe.Time == "" || err != nil {
			ev.Start = core.EventTime{Date: day.Format(time.DateOnly)}
			ev.End = core.EventTime{Date: day.AddDate(0, 0, 1).Format(time.DateOnly)}
			out = append(out, ev)
			continue
		}

		start := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		dur := time.Hour
		if d, err := time.ParseDuration(fe.Duration); err == nil && d > 0 {
			dur = d
		}
		end := start.Add(dur)
		ev.Start = core.EventTime{DateTime: &start}
		ev.End = core.EventTime{DateTime: &end}
		out = append(out, ev)
	}
	return out
}

func (s *FixtureSource) EventsInRange(ctx context.Context, start, end time.Time) ([]core.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]core.CalendarEvent, 0)
	for _, ev := range s.events(s.clock()) {
		at, ok := startOf(ev.Start, s.loc)
		if !ok || at.Before(start) || !at.Before(end) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *FixtureSource) Search(ctx context.Context, query string) ([]core.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]core.CalendarEvent, 0)
	for _, ev := range s.events(s.clock()) {
		hay := strings.ToLower(ev.Summary + " " + ev.Description + " " + ev.Location)
		if q == "" || strings.Contains(hay, q) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *FixtureSource) Windows(ctx context.Context, now time.Time) (core.CalendarWindows, error) {
	if err := ctx.Err(); err != nil {
		return core.CalendarWindows{}, err
	}
	now = now.In(s.loc)
	return SplitWindows(s.events(now), now), nil
}
