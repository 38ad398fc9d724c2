package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/log"
)

const (
	DefaultTitle = "New Conversation"

	// ExtractionWindow is how many trailing messages are sent for memory
	// extraction after a turn.
	ExtractionWindow = 5

	titleRunes = 50
)

// Recorder persists conversation turns and hands finished turns to the
// extraction queue.
type Recorder struct {
	sessions core.SessionsRepository
	messages core.MessagesRepository
	queue    *ExtractionQueue
	clock    func() time.Time
}

func NewRecorder(sessions core.SessionsRepository, messages core.MessagesRepository, queue *ExtractionQueue) *Recorder {
	return &Recorder{
		sessions: sessions,
		messages: messages,
		queue:    queue,
		clock:    time.Now,
	}
}

// EnsureSession returns the session with the given id, creating it on first
// use. A concurrent creator wins and its row is returned. A session owned by
// another user is reported as not found.
func (r *Recorder) EnsureSession(ctx context.Context, sessionID, userID, title string) (core.Session, error) {
	s, err := r.sessions.GetSession(ctx, sessionID)
	if err == nil {
		return owned(s, userID)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Session{}, fmt.Errorf("get session: %w", err)
	}

	now := r.clock().UTC()
	if title = strings.TrimSpace(title); title == "" {
		title = DefaultTitle
	}
	created, err := r.sessions.CreateSession(ctx, core.Session{
		ID:        sessionID,
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return core.Session{}, fmt.Errorf("create session: %w", err)
	}
	if created {
		log.FromCtx(ctx).Debug().Str("session_id", sessionID).Msg("session created")
	}
	s, err = r.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return core.Session{}, fmt.Errorf("get session: %w", err)
	}
	return owned(s, userID)
}

// owned passes s through only when userID owns it.
func owned(s core.Session, userID string) (core.Session, error) {
	if s.UserID != userID {
		return core.Session{}, fmt.Errorf("session %s: %w", s.ID, core.ErrNotFound)
	}
	return s, nil
}

// Record appends one message to the session, creating the session when it
// does not exist yet, and moves the session's UpdatedAt forward.
func (r *Recorder) Record(ctx context.Context, sessionID, userID string, role core.Role, content string) (core.Message, error) {
	if sessionID == "" {
		return core.Message{}, fmt.Errorf("session id is required: %w", core.ErrInvalidInput)
	}
	if !role.Valid() {
		return core.Message{}, fmt.Errorf("role %q: %w", role, core.ErrInvalidInput)
	}

	title := DefaultTitle
	if role == core.RoleUser {
		title = TitleFrom(content)
	}
	if _, err := r.EnsureSession(ctx, sessionID, userID, title); err != nil {
		return core.Message{}, err
	}

	now := r.clock().UTC()
	msg, err := r.messages.AddMessage(ctx, core.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	})
	if err != nil {
		return core.Message{}, fmt.Errorf("add message: %w", err)
	}

	if _, err := r.sessions.TouchSession(ctx, sessionID, now); err != nil {
		return msg, fmt.Errorf("touch session: %w", err)
	}
	return msg, nil
}

// SubmitForExtraction queues the last ExtractionWindow messages for memory
// extraction. It never blocks.
func (r *Recorder) SubmitForExtraction(ctx context.Context, userID string, history []core.Message) bool {
	if r.queue == nil || userID == "" || len(history) == 0 {
		return false
	}
	return r.queue.Enqueue(ctx, userID, core.Tail(history, ExtractionWindow))
}

// TitleFrom derives a session title from the first user message.
func TitleFrom(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return DefaultTitle
	}
	if utf8.RuneCountInString(text) <= titleRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:titleRunes])) + "..."
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}
