package core

import (
	"context"
	"time"
)

type AIProvider interface {
	// Stream starts a completion. The returned channel is closed when the
	// model is done or a chunk carrying Err has been delivered.
	Stream(ctx context.Context, system string, history []Message) (<-chan Chunk, error)
}

type MemoryStore interface {
	// Add distills the conversation into durable facts and returns them.
	Add(ctx context.Context, userID string, conversation []Message) ([]Memory, error)
	AddText(ctx context.Context, userID, text string) (Memory, error)
	Search(ctx context.Context, userID, query string, limit int) ([]Memory, error)
	List(ctx context.Context, userID string) ([]Memory, error)
	Update(ctx context.Context, userID, memoryID, text string) (Memory, error)
	Delete(ctx context.Context, userID, memoryID string) error
	DeleteAll(ctx context.Context, userID string) error
}

type CalendarSource interface {
	// Ping verifies connectivity and authorization.
	Ping(ctx context.Context) error
	EventsInRange(ctx context.Context, start, end time.Time) ([]CalendarEvent, error)
	Search(ctx context.Context, query string) ([]CalendarEvent, error)
	// Windows fetches past 30 days, today and next 30 days in one call.
	Windows(ctx context.Context, now time.Time) (CalendarWindows, error)
}

// CalendarProvider resolves the calendar source for a request.
type CalendarProvider interface {
	ForSession(ctx context.Context, meta SessionMeta) (CalendarSource, error)
}
