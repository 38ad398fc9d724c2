package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/providers/calendar"
	"github.com/sandevgo/mindful/internal/service/assembler"
	"github.com/sandevgo/mindful/internal/service/chat"
	memsvc "github.com/sandevgo/mindful/internal/service/memory"
	"github.com/sandevgo/mindful/internal/storage/sqlite"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC)

// replyAI streams a fixed reply and keeps the last system prompt.
type replyAI struct {
	reply  string
	system string
}

func (a *replyAI) Stream(ctx context.Context, system string, history []core.Message) (<-chan core.Chunk, error) {
	a.system = system
	ch := make(chan core.Chunk, 1)
	ch <- core.Chunk{Text: a.reply}
	close(ch)
	return ch, nil
}

type testEnv struct {
	handler http.Handler
	ai      *replyAI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlite.NewDB(ctx, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ai := &replyAI{reply: "Take it one step at a time."}
	store := memsvc.NewLocalStore(sqlite.NewKnowledgeRepo(db), memsvc.NewExtractor(&replyAI{reply: "[]"}))

	fixtures, err := calendar.LoadFixtures()
	require.NoError(t, err)
	cals := calendar.NewProvider(&config.CalendarConfig{
		Backend:        config.CalendarBackendGoogle,
		DefaultPersona: "alex",
	}, fixtures)

	asm := assembler.New(store, cals, assembler.Options{
		CountTokens: assembler.CountWords,
		Clock:       func() time.Time { return testNow },
	})
	sessions := sqlite.NewSessionsRepo(db)
	messages := sqlite.NewMessagesRepo(db)
	svc := chat.NewService(asm, chat.NewStreamer(ai), chat.NewRecorder(sessions, messages, nil), sessions, messages, 30)

	srv := NewServer(&config.HTTPConfig{Addr: ":0"}, "http://localhost:3000", svc, store, cals)
	srv.clock = func() time.Time { return testNow }

	return &testEnv{handler: srv.Handler(), ai: ai}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodOptions, "/chat", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Session-Id")
}
