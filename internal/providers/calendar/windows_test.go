package calendar

import (
	"testing"
	"time"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/stretchr/testify/assert"
)

func at(t time.Time) core.EventTime {
	return core.EventTime{DateTime: &t}
}

func TestSplitWindows(t *testing.T) {
	now := time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC)

	events := []core.CalendarEvent{
		{Summary: "later today", Start: at(now.Add(3 * time.Hour))},
		{Summary: "too old", Start: at(now.AddDate(0, 0, -40))},
		{Summary: "last week", Start: at(now.AddDate(0, 0, -7))},
		{Summary: "this morning", Start: at(now.Add(-4 * time.Hour))},
		{Summary: "all day today", Start: core.EventTime{Date: "2025-05-14"}},
		{Summary: "next week", Start: at(now.AddDate(0, 0, 7))},
		{Summary: "too far", Start: at(now.AddDate(0, 0, 45))},
		{Summary: "no start"},
	}

	w := SplitWindows(events, now)

	assert.Equal(t, []string{"last week"}, summaries(w.Past))
	assert.Equal(t, []string{"all day today", "this morning", "later today"}, summaries(w.Today))
	assert.Equal(t, []string{"next week"}, summaries(w.Upcoming))
}

func TestSplitWindowsEmpty(t *testing.T) {
	w := SplitWindows(nil, time.Now())
	assert.NotNil(t, w.Today)
	assert.Empty(t, w.Today)
	assert.Empty(t, w.Past)
	assert.Empty(t, w.Upcoming)
}

func summaries(evs []core.CalendarEvent) []string {
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Summary)
	}
	return out
}
