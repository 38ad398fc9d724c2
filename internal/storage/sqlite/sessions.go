package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/mindful/internal/core"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

// CreateSession is idempotent on id: a concurrent creator that loses the
// race gets false and the existing row stays untouched.
func (r *SessionsRepo) CreateSession(ctx context.Context, s core.Session) (bool, error) {
	if s.ID == "" || s.UserID == "" {
		return false, fmt.Errorf("session id and user id are required: %w", core.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		s.ID, s.UserID, s.Title, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SessionsRepo) GetSession(ctx context.Context, id string) (core.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM sessions WHERE id = ?`, id)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Session{}, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

func (r *SessionsRepo) ListSessions(ctx context.Context, userID string, limit int) ([]core.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM sessions
		 WHERE user_id = ? ORDER BY updated_at DESC, created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]core.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionsRepo) RenameSession(ctx context.Context, id, title string) (core.Session, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to rename session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Session{}, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
	}
	return r.GetSession(ctx, id)
}

// TouchSession moves updated_at forward to at, never backward, and returns
// the stored value.
func (r *SessionsRepo) TouchSession(ctx context.Context, id string, at time.Time) (time.Time, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback()

	var prev time.Time
	err = tx.QueryRowContext(ctx, `SELECT updated_at FROM sessions WHERE id = ?`, id).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read session: %w", err)
	}

	next := at.UTC()
	if next.Before(prev) {
		next = prev
	}

	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, next, id); err != nil {
		return time.Time{}, fmt.Errorf("failed to touch session: %w", err)
	}
	return next, tx.Commit()
}

func (r *SessionsRepo) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, core.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (core.Session, error) {
	var s core.Session
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
