package httpapi

import (
	"errors"
	"net/http"

	"github.com/sandevgo/mindful/internal/core"
)

type calendarCounts struct {
	Past     int `json:"past"`
	Today    int `json:"today"`
	Upcoming int `json:"upcoming"`
}

type calendarTestResponse struct {
	OK     bool                 `json:"ok"`
	Stage  string               `json:"stage,omitempty"`
	Error  string               `json:"error,omitempty"`
	Counts *calendarCounts      `json:"counts,omitempty"`
	Today  []core.CalendarEvent `json:"today,omitempty"`
}

// handleCalendarTest checks that the caller's calendar can be reached and
// reports how many events each window holds.
func (s *Server) handleCalendarTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meta := core.SessionMeta{
		AccessToken: bearerToken(r),
		Persona:     r.URL.Query().Get("persona"),
	}

	src, err := s.calendars.ForSession(ctx, meta)
	if err != nil {
		s.calendarFailure(w, "connect", err)
		return
	}
	if err := src.Ping(ctx); err != nil {
		s.calendarFailure(w, "ping", err)
		return
	}

	windows, err := src.Windows(ctx, s.clock())
	if err != nil {
		s.calendarFailure(w, "fetch", err)
		return
	}

	writeJSON(w, http.StatusOK, calendarTestResponse{
		OK: true,
		Counts: &calendarCounts{
			Past:     len(windows.Past),
			Today:    len(windows.Today),
			Upcoming: len(windows.Upcoming),
		},
		Today: windows.Today,
	})
}

func (s *Server) calendarFailure(w http.ResponseWriter, stage string, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, core.ErrCalendarUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, calendarTestResponse{Stage: stage, Error: err.Error()})
}
