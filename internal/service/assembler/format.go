package assembler

import (
	"strings"
	"time"

	"github.com/sandevgo/mindful/internal/core"
)

// FormatMemories renders the memory block. Facts that would push the block
// past budget tokens are dropped whole; a non-positive budget means no cap.
func FormatMemories(memories []core.Memory, budget int, count TokenCounter) string {
	var sb strings.Builder
	used := 0
	for _, m := range memories {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		line := "\n- " + text
		if budget > 0 {
			cost := count(line)
			if used+cost > budget {
				continue
			}
			used += cost
		}
		sb.WriteString(line)
	}
	if sb.Len() == 0 {
		return ""
	}
	return memoryHeader + sb.String()
}

// FormatCalendar renders the three windows. Today is always listed; empty
// past and upcoming windows are left out.
func FormatCalendar(w core.CalendarWindows) string {
	var sb strings.Builder
	sb.WriteString(calendarHeader)

	sb.WriteString(todayHeader)
	if len(w.Today) == 0 {
		sb.WriteString(noEventsLine)
	}
	writeEvents(&sb, w.Today)

	if upcoming := w.Upcoming; len(upcoming) > 0 {
		if len(upcoming) > maxUpcomingEvents {
			upcoming = upcoming[:maxUpcomingEvents]
		}
		sb.WriteString(upcomingHeader)
		writeEvents(&sb, upcoming)
	}

	if past := w.Past; len(past) > 0 {
		if len(past) > maxPastEvents {
			past = past[len(past)-maxPastEvents:]
		}
		sb.WriteString(pastHeader)
		writeEvents(&sb, past)
	}
	return sb.String()
}

func writeEvents(sb *strings.Builder, events []core.CalendarEvent) {
	for _, ev := range events {
		sb.WriteString("\n- ")
		sb.WriteString(ev.Summary)
		sb.WriteString(" (")
		sb.WriteString(When(ev))
		sb.WriteString(")")
	}
}

// When renders an event start: a time of day, a date for all-day events,
// or "All day" when the start is unknown.
func When(ev core.CalendarEvent) string {
	switch {
	case ev.Start.DateTime != nil:
		return ev.Start.DateTime.Format(timeLayout)
	case ev.Start.Date != "":
		if d, err := time.Parse(time.DateOnly, ev.Start.Date); err == nil {
			return d.Format(dateLayout)
		}
		return ev.Start.Date
	default:
		return "All day"
	}
}
