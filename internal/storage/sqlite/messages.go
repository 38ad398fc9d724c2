package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

// AddMessage appends msg to its session. Rows are never updated afterwards.
func (r *MessagesRepo) AddMessage(ctx context.Context, msg core.Message) (core.Message, error) {
	if msg.SessionID == "" || !msg.Role.Valid() {
		return core.Message{}, fmt.Errorf("message needs a session and a valid role: %w", core.ErrInvalidInput)
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	// Structured messages keep their parts; content mirrors the text for
	// readers that only understand the legacy form.
	var parts sql.NullString
	if msg.IsStructured() {
		raw, err := json.Marshal(msg.Parts)
		if err != nil {
			return core.Message{}, fmt.Errorf("failed to marshal parts: %w", err)
		}
		parts = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, role, content, parts, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Text(), parts, msg.CreatedAt,
	)
	if err != nil {
		return core.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

// GetMessages returns the last limit messages of the session in append
// order. A non-positive limit returns all of them.
func (r *MessagesRepo) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, parts, created_at FROM messages
		 WHERE session_id = ? ORDER BY seq DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]core.Message, 0)
	for rows.Next() {
		var msg core.Message
		var parts sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &parts, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		if parts.Valid && parts.String != "" {
			if err := json.Unmarshal([]byte(parts.String), &msg.Parts); err != nil {
				return nil, fmt.Errorf("failed to unmarshal parts: %w", err)
			}
			msg.Content = ""
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest first from the query; callers want append order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Str("session_id", sessionID).Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}
