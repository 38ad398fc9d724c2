package assembler

import (
	"context"
	"time"

	"github.com/sandevgo/mindful/internal/core"
)

type fakeMemory struct {
	results []core.Memory
	err     error
	queries []string
}

func (f *fakeMemory) Add(ctx context.Context, userID string, conversation []core.Message) ([]core.Memory, error) {
	return nil, nil
}

func (f *fakeMemory) AddText(ctx context.Context, userID, text string) (core.Memory, error) {
	return core.Memory{}, nil
}

func (f *fakeMemory) Search(ctx context.Context, userID, query string, limit int) ([]core.Memory, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func (f *fakeMemory) List(ctx context.Context, userID string) ([]core.Memory, error) {
	return f.results, nil
}

func (f *fakeMemory) Update(ctx context.Context, userID, memoryID, text string) (core.Memory, error) {
	return core.Memory{}, nil
}

func (f *fakeMemory) Delete(ctx context.Context, userID, memoryID string) error { return nil }

func (f *fakeMemory) DeleteAll(ctx context.Context, userID string) error { return nil }

type fakeSource struct {
	pingErr    error
	windowsErr error
	windows    core.CalendarWindows
}

func (f *fakeSource) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeSource) EventsInRange(ctx context.Context, start, end time.Time) ([]core.CalendarEvent, error) {
	return nil, nil
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]core.CalendarEvent, error) {
	return nil, nil
}

func (f *fakeSource) Windows(ctx context.Context, now time.Time) (core.CalendarWindows, error) {
	return f.windows, f.windowsErr
}

type fakeCalendars struct {
	src   *fakeSource
	err   error
	calls int
}

func (f *fakeCalendars) ForSession(ctx context.Context, meta core.SessionMeta) (core.CalendarSource, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.src, nil
}
