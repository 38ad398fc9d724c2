package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/mindful/internal/core"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	primaryCalendar = "primary"
	maxEventsPerCal = 250
	searchLookback  = 365
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// Google reads the user's primary Google calendar with their access token.
type Google struct {
	svc *gcal.Service
}

// NewGoogle builds a source for one access token. The OAuth client
// credentials are optional and only matter when the token carries a refresh
// token.
func NewGoogle(ctx context.Context, clientID, clientSecret, accessToken string, opts ...option.ClientOption) (*Google, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleEndpoint,
		Scopes:       []string{gcal.CalendarReadonlyScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Google{svc: svc}, nil
}

func (g *Google) Ping(ctx context.Context) error {
	_, err := g.svc.CalendarList.List().MaxResults(1).Context(ctx).Do()
	return classify(err)
}

func (g *Google) EventsInRange(ctx context.Context, start, end time.Time) ([]core.CalendarEvent, error) {
	res, err := g.svc.Events.List(primaryCalendar).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventsPerCal).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}
	return convertEvents(res.Items), nil
}

func (g *Google) Search(ctx context.Context, query string) ([]core.CalendarEvent, error) {
	now := time.Now()
	res, err := g.svc.Events.List(primaryCalendar).
		Q(query).
		TimeMin(now.AddDate(0, 0, -searchLookback).Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 0, searchLookback).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventsPerCal).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}
	return convertEvents(res.Items), nil
}

// Windows fetches the whole 60 day span in one request and splits it
// locally.
func (g *Google) Windows(ctx context.Context, now time.Time) (core.CalendarWindows, error) {
	from, to := Range(now)
	events, err := g.EventsInRange(ctx, from, to)
	if err != nil {
		return core.CalendarWindows{}, err
	}
	return SplitWindows(events, now), nil
}

func convertEvents(items []*gcal.Event) []core.CalendarEvent {
	out := make([]core.CalendarEvent, 0, len(items))
	for _, it := range items {
		if it == nil || it.Status == "cancelled" {
			continue
		}
		ev := core.CalendarEvent{
			Summary:     it.Summary,
			Location:    it.Location,
			Description: plainText(it.Description),
			Start:       convertTime(it.Start),
			End:         convertTime(it.End),
		}
		if ev.Summary == "" {
			ev.Summary = "(No title)"
		}
		for _, a := range it.Attendees {
			if a == nil {
				continue
			}
			name := a.DisplayName
			if name == "" {
				name = a.Email
			}
			ev.Attendees = append(ev.Attendees, name)
		}
		out = append(out, ev)
	}
	return out
}

func convertTime(t *gcal.EventDateTime) core.EventTime {
	if t == nil {
		return core.EventTime{}
	}
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return core.EventTime{DateTime: &parsed}
		}
	}
	return core.EventTime{Date: t.Date}
}

// plainText flattens the HTML Google stores in event descriptions.
func plainText(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return s
	}
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return s
	}
	return text
}

// classify maps Google API failures onto the calendar error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden {
			return fmt.Errorf("%w: %w", core.ErrCalendarUnauthorized, err)
		}
		return fmt.Errorf("%w: %w", core.ErrUpstreamUnavailable, err)
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%w: %w", core.ErrCalendarUnauthorized, err)
	}
	return fmt.Errorf("%w: %w", core.ErrUpstreamUnavailable, err)
}
