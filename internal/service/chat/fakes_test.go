package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/providers/calendar"
	"github.com/sandevgo/mindful/internal/service/assembler"
	"github.com/sandevgo/mindful/internal/storage/sqlite"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC)

// scriptedAI streams fixed chunks, optionally followed by an error, and
// keeps the last prompt it was given.
type scriptedAI struct {
	chunks  []string
	err     error
	system  string
	history []core.Message
}

func (a *scriptedAI) Stream(ctx context.Context, system string, history []core.Message) (<-chan core.Chunk, error) {
	a.system = system
	a.history = history
	ch := make(chan core.Chunk, len(a.chunks)+1)
	for _, c := range a.chunks {
		ch <- core.Chunk{Text: c}
	}
	if a.err != nil {
		ch <- core.Chunk{Err: a.err}
	}
	close(ch)
	return ch, nil
}

// recordingMemory reports every extraction job on added.
type recordingMemory struct {
	added chan []core.Message
}

func newRecordingMemory() *recordingMemory {
	return &recordingMemory{added: make(chan []core.Message, 8)}
}

func (m *recordingMemory) Add(ctx context.Context, userID string, conversation []core.Message) ([]core.Memory, error) {
	m.added <- conversation
	return nil, nil
}

func (m *recordingMemory) AddText(ctx context.Context, userID, text string) (core.Memory, error) {
	return core.Memory{}, nil
}

func (m *recordingMemory) Search(ctx context.Context, userID, query string, limit int) ([]core.Memory, error) {
	return nil, nil
}

func (m *recordingMemory) List(ctx context.Context, userID string) ([]core.Memory, error) {
	return nil, nil
}

func (m *recordingMemory) Update(ctx context.Context, userID, memoryID, text string) (core.Memory, error) {
	return core.Memory{}, nil
}

func (m *recordingMemory) Delete(ctx context.Context, userID, memoryID string) error { return nil }

func (m *recordingMemory) DeleteAll(ctx context.Context, userID string) error { return nil }

func (m *recordingMemory) next(t *testing.T) []core.Message {
	t.Helper()
	select {
	case msgs := <-m.added:
		return msgs
	case <-time.After(2 * time.Second):
		t.Fatal("no extraction job received")
		return nil
	}
}

func (m *recordingMemory) none(t *testing.T) {
	t.Helper()
	select {
	case msgs := <-m.added:
		t.Fatalf("unexpected extraction job: %v", msgs)
	case <-time.After(100 * time.Millisecond):
	}
}

type fixture struct {
	svc      *Service
	recorder *Recorder
	sessions *sqlite.SessionsRepo
	messages *sqlite.MessagesRepo
	memory   *recordingMemory
}

func newFixture(t *testing.T, ai core.AIProvider) *fixture {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlite.NewDB(ctx, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fixtures, err := calendar.LoadFixtures()
	require.NoError(t, err)
	cals := calendar.NewProvider(&config.CalendarConfig{
		Backend:        config.CalendarBackendGoogle,
		DefaultPersona: "alex",
	}, fixtures)

	mem := newRecordingMemory()
	asm := assembler.New(mem, cals, assembler.Options{
		CountTokens: assembler.CountWords,
		Clock:       func() time.Time { return testNow },
	})

	queue := NewExtractionQueue(mem, 8)
	require.NoError(t, queue.Start(ctx))
	t.Cleanup(func() { queue.Shutdown(ctx) })

	sessions := sqlite.NewSessionsRepo(db)
	messages := sqlite.NewMessagesRepo(db)
	recorder := NewRecorder(sessions, messages, queue)

	return &fixture{
		svc:      NewService(asm, NewStreamer(ai), recorder, sessions, messages, 30),
		recorder: recorder,
		sessions: sessions,
		messages: messages,
		memory:   mem,
	}
}
