package calendar

import (
	"sort"
	"time"

	"github.com/sandevgo/mindful/internal/core"
)

// WindowDays is the reach of the past and upcoming windows.
const WindowDays = 30

// Range returns the bounds of the composite fetch around now.
func Range(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -WindowDays), now.AddDate(0, 0, WindowDays)
}

// dayBounds returns the start of now's day and of the next day in now's
// location.
func dayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// startOf resolves an event start to an instant. Date-only events start at
// midnight in loc.
func startOf(t core.EventTime, loc *time.Location) (time.Time, bool) {
	if t.DateTime != nil {
		return *t.DateTime, true
	}
	if t.Date != "" {
		d, err := time.ParseInLocation(time.DateOnly, t.Date, loc)
		if err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// SplitWindows sorts events by start and assigns them to past, today and
// upcoming relative to now. Events without a usable start are dropped.
func SplitWindows(events []core.CalendarEvent, now time.Time) core.CalendarWindows {
	loc := now.Location()
	from, to := Range(now)
	todayStart, tomorrow := dayBounds(now)

	type dated struct {
		at time.Time
		ev core.CalendarEvent
	}
	sorted := make([]dated, 0, len(events))
	for _, ev := range events {
		at, ok := startOf(ev.Start, loc)
		if !ok {
			continue
		}
		sorted = append(sorted, dated{at: at, ev: ev})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })

	w := core.CalendarWindows{
		Past:     []core.CalendarEvent{},
		Today:    []core.CalendarEvent{},
		Upcoming: []core.CalendarEvent{},
	}
	for _, d := range sorted {
		switch {
		case d.at.Before(from) || d.at.After(to):
			continue
		case d.at.Before(todayStart):
			w.Past = append(w.Past, d.ev)
		case d.at.Before(tomorrow):
			w.Today = append(w.Today, d.ev)
		default:
			w.Upcoming = append(w.Upcoming, d.ev)
		}
	}
	return w
}
