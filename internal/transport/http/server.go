package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/service/chat"
	"github.com/sandevgo/mindful/pkg/log"
)

// Server is the web API: streamed chat, session history, memories and a
// calendar diagnostic.
type Server struct {
	cfg       *config.HTTPConfig
	siteURL   string
	chat      *chat.Service
	memory    core.MemoryStore
	calendars core.CalendarProvider
	mcp       http.Handler
	clock     func() time.Time

	srv *http.Server
}

type Option func(*Server)

// WithMCP mounts an MCP handler under /mcp.
func WithMCP(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

func NewServer(
	cfg *config.HTTPConfig,
	siteURL string,
	chatSvc *chat.Service,
	memory core.MemoryStore,
	calendars core.CalendarProvider,
	opts ...Option,
) *Server {
	s := &Server{
		cfg:       cfg,
		siteURL:   siteURL,
		chat:      chatSvc,
		memory:    memory,
		calendars: calendars,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer, cors(s.siteURL))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/chat", s.handleChat)
	r.Route("/chat/session", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Patch("/{id}", s.handleRenameSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})
	r.Get("/chat/sessions", s.handleListSessions)

	r.Route("/memories", func(r chi.Router) {
		r.Get("/", s.handleListMemories)
		r.Post("/", s.handleAddMemory)
		r.Delete("/", s.handleDeleteAllMemories)
		r.Patch("/{id}", s.handleUpdateMemory)
		r.Delete("/{id}", s.handleDeleteMemory)
	})

	r.Get("/calendar/test", s.handleCalendarTest)

	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
	}
	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
