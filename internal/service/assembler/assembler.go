package assembler

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/log"
)

type Options struct {
	MemoryLimit  int
	MemoryBudget int
	Classifier   Classifier
	CountTokens  TokenCounter
	Clock        func() time.Time
}

// Assembler builds the system prompt for a turn from the base instructions,
// the user's memories and, when the message is about their schedule, their
// calendar. Enrichment failures never fail the turn.
type Assembler struct {
	memory    core.MemoryStore
	calendars core.CalendarProvider
	opts      Options
}

func New(memory core.MemoryStore, calendars core.CalendarProvider, opts Options) *Assembler {
	if opts.MemoryLimit <= 0 {
		opts.MemoryLimit = 10
	}
	if opts.Classifier == nil {
		opts.Classifier = NewKeywordClassifier()
	}
	if opts.CountTokens == nil {
		opts.CountTokens = CountTokens
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Assembler{memory: memory, calendars: calendars, opts: opts}
}

func (a *Assembler) Assemble(ctx context.Context, messages []core.Message, user core.User, meta core.SessionMeta) core.AssembledContext {
	query, ok := core.LastUserText(messages)
	if !ok {
		query = FallbackQuery
	}

	var out core.AssembledContext
	out.MemoryBlock = a.memoryBlock(ctx, user.ID, query)

	if ok && a.opts.Classifier.IsCalendarRelated(query) && meta.CalendarAuthorized() {
		out.CalendarBlock = a.calendarBlock(ctx, meta)
	}

	out.SystemPrompt = BasePrompt + out.MemoryBlock + out.CalendarBlock
	return out
}

func (a *Assembler) memoryBlock(ctx context.Context, userID, query string) string {
	if userID == "" || a.memory == nil {
		return ""
	}
	memories, err := a.memory.Search(ctx, userID, query, a.opts.MemoryLimit)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("memory search failed")
		return ""
	}
	return FormatMemories(memories, a.opts.MemoryBudget, a.opts.CountTokens)
}

func (a *Assembler) calendarBlock(ctx context.Context, meta core.SessionMeta) string {
	logger := log.FromCtx(ctx)
	if a.calendars == nil {
		return ""
	}

	src, err := a.calendars.ForSession(ctx, meta)
	if err == nil {
		err = src.Ping(ctx)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("calendar unavailable")
		return connectionNote(err)
	}

	windows, err := src.Windows(ctx, a.opts.Clock())
	if err != nil {
		logger.Warn().Err(err).Msg("calendar fetch failed")
		return CalendarFetchFailedNote
	}
	return FormatCalendar(windows)
}

func connectionNote(err error) string {
	if errors.Is(err, core.ErrCalendarUnauthorized) {
		return CalendarUnauthorizedNote
	}
	return CalendarUnreachableNote
}
