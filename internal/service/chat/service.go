package chat

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/service/assembler"
	"github.com/sandevgo/mindful/pkg/log"
)

// Apology is streamed and stored in place of a reply the model failed to
// produce.
const Apology = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

type TurnRequest struct {
	// SessionID may be empty; a new id is generated then.
	SessionID string
	Meta      core.SessionMeta
	// Messages is the conversation as the client sees it. The last user
	// message is the new turn.
	Messages []core.Message
}

type TurnResult struct {
	SessionID string
	Reply     string
	// Failed reports that the model failed and Reply is the apology.
	Failed bool
}

// Service runs chat turns: persist the user message, build the context,
// stream the reply, persist it and queue memory extraction.
type Service struct {
	assembler *assembler.Assembler
	streamer  *Streamer
	recorder  *Recorder
	sessions  core.SessionsRepository
	messages  core.MessagesRepository
	window    int
}

func NewService(
	asm *assembler.Assembler,
	streamer *Streamer,
	recorder *Recorder,
	sessions core.SessionsRepository,
	messages core.MessagesRepository,
	window int,
) *Service {
	if window <= 0 {
		window = 30
	}
	return &Service{
		assembler: asm,
		streamer:  streamer,
		recorder:  recorder,
		sessions:  sessions,
		messages:  messages,
		window:    window,
	}
}

// Turn streams the reply to w. Errors are returned only when nothing has
// been written yet; once streaming starts a model failure is answered with
// the apology instead.
func (s *Service) Turn(ctx context.Context, req TurnRequest, w io.Writer, flush func()) (TurnResult, error) {
	meta := req.Meta
	meta.User.ID = core.NormalizeUserID(meta.User.ID)
	if meta.User.ID == "" {
		return TurnResult{}, fmt.Errorf("user id is required: %w", core.ErrInvalidInput)
	}
	input, ok := core.LastUserText(req.Messages)
	if !ok {
		return TurnResult{}, fmt.Errorf("no user message: %w", core.ErrInvalidInput)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	ctx = log.WithFields(ctx, map[string]any{"session_id": sessionID, "user_id": meta.User.ID})
	logger := log.FromCtx(ctx)

	if _, err := s.recorder.Record(ctx, sessionID, meta.User.ID, core.RoleUser, input); err != nil {
		return TurnResult{}, fmt.Errorf("record user message: %w", err)
	}

	history := core.Tail(req.Messages, s.window)
	assembled := s.assembler.Assemble(ctx, history, meta.User, meta)
	logger.Debug().
		Bool("memory", assembled.MemoryBlock != "").
		Bool("calendar", assembled.CalendarBlock != "").
		Msg("context assembled")

	reply, err := s.streamer.Stream(ctx, assembled.SystemPrompt, history, w, flush)
	res := TurnResult{SessionID: sessionID, Reply: reply}
	if err != nil {
		logger.Error().Err(err).Int("partial_len", len(reply)).Msg("response stream failed")
		if reply == "" && ctx.Err() == nil {
			if _, werr := io.WriteString(w, Apology); werr == nil && flush != nil {
				flush()
			}
		}
		res.Reply = Apology
		res.Failed = true
	}

	// The client may be gone by now; the turn is still stored.
	persistCtx := context.WithoutCancel(ctx)
	assistant, err := s.recorder.Record(persistCtx, sessionID, meta.User.ID, core.RoleAssistant, res.Reply)
	if err != nil {
		logger.Error().Err(err).Msg("failed to save assistant message")
		return res, nil
	}

	if !res.Failed {
		conv := append(core.Tail(req.Messages, ExtractionWindow), assistant)
		s.recorder.SubmitForExtraction(persistCtx, meta.User.ID, conv)
	}
	return res, nil
}

// Reply runs a turn for transports that keep no history of their own: the
// stored conversation of the session is used.
func (s *Service) Reply(ctx context.Context, sessionID string, meta core.SessionMeta, input string, w io.Writer, flush func()) (TurnResult, error) {
	if strings.TrimSpace(input) == "" {
		return TurnResult{}, fmt.Errorf("empty message: %w", core.ErrInvalidInput)
	}
	var history []core.Message
	if sessionID != "" {
		limit := s.window - 1
		if limit < 1 {
			limit = 1
		}
		stored, err := s.messages.GetMessages(ctx, sessionID, limit)
		if err != nil {
			return TurnResult{}, fmt.Errorf("load history: %w", err)
		}
		history = stored
	}
	history = append(history, core.Message{Role: core.RoleUser, Content: input})

	return s.Turn(ctx, TurnRequest{SessionID: sessionID, Meta: meta, Messages: history}, w, flush)
}

// StartSession creates a session explicitly, optionally seeded with the
// user's first message. An existing session with the same id is reused.
func (s *Service) StartSession(ctx context.Context, sessionID, userID, initialMessage, title string) (core.Session, *core.Message, error) {
	userID = core.NormalizeUserID(userID)
	if userID == "" {
		return core.Session{}, nil, fmt.Errorf("user id is required: %w", core.ErrInvalidInput)
	}
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	if strings.TrimSpace(title) == "" {
		title = TitleFrom(initialMessage)
	}

	if _, err := s.recorder.EnsureSession(ctx, sessionID, userID, title); err != nil {
		return core.Session{}, nil, err
	}

	var first *core.Message
	if strings.TrimSpace(initialMessage) != "" {
		msg, err := s.recorder.Record(ctx, sessionID, userID, core.RoleUser, initialMessage)
		if err != nil {
			return core.Session{}, nil, err
		}
		first = &msg
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return core.Session{}, nil, fmt.Errorf("get session: %w", err)
	}
	return session, first, nil
}

func (s *Service) ListSessions(ctx context.Context, userID string, limit int) ([]core.Session, error) {
	userID = core.NormalizeUserID(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", core.ErrInvalidInput)
	}
	return s.sessions.ListSessions(ctx, userID, limit)
}

// Conversation returns a session of userID with all of its messages in
// order.
func (s *Service) Conversation(ctx context.Context, sessionID, userID string) (core.Session, []core.Message, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return core.Session{}, nil, err
	}
	msgs, err := s.messages.GetMessages(ctx, sessionID, 0)
	if err != nil {
		return core.Session{}, nil, fmt.Errorf("get messages: %w", err)
	}
	return session, msgs, nil
}

func (s *Service) RenameSession(ctx context.Context, sessionID, userID, title string) (core.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return core.Session{}, fmt.Errorf("title is required: %w", core.ErrInvalidInput)
	}
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return core.Session{}, err
	}
	return s.sessions.RenameSession(ctx, sessionID, title)
}

func (s *Service) DeleteSession(ctx context.Context, sessionID, userID string) error {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return err
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

// ownedSession loads a session and hides it from anyone but its owner.
func (s *Service) ownedSession(ctx context.Context, sessionID, userID string) (core.Session, error) {
	userID = core.NormalizeUserID(userID)
	if userID == "" {
		return core.Session{}, fmt.Errorf("user id is required: %w", core.ErrInvalidInput)
	}
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return core.Session{}, err
	}
	return owned(session, userID)
}
