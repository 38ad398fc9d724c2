package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/mindful/internal/core"
)

type KnowledgeRepo struct {
	db *sql.DB
}

func NewKnowledgeRepo(db *sql.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

// SaveFact stores a fact for a user. A fact whose hash already exists for
// that user yields core.ErrDuplicate.
func (r *KnowledgeRepo) SaveFact(ctx context.Context, fact core.StoredKnowledge) (core.StoredKnowledge, error) {
	if fact.UserID == "" || strings.TrimSpace(fact.Fact) == "" {
		return core.StoredKnowledge{}, fmt.Errorf("fact needs a user and text: %w", core.ErrInvalidInput)
	}
	if fact.ID == "" {
		fact.ID = uuid.NewString()
	}
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now().UTC()
	}
	if fact.Category == "" {
		fact.Category = "general"
	}
	if fact.Source == "" {
		fact.Source = "extracted"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memories (id, user_id, fact, category, source, fact_hash, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fact.ID, fact.UserID, fact.Fact, fact.Category, fact.Source, fact.FactHash, fact.CreatedAt,
	)
	if err != nil {
		if isDuplicateError(err) {
			return core.StoredKnowledge{}, fmt.Errorf("fact already known: %w", core.ErrDuplicate)
		}
		return core.StoredKnowledge{}, fmt.Errorf("failed to insert fact: %w", err)
	}
	return fact, nil
}

func (r *KnowledgeRepo) GetFact(ctx context.Context, userID, id string) (core.StoredKnowledge, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, fact, category, source, fact_hash, created_at, updated_at
		 FROM memories WHERE user_id = ? AND id = ?`, userID, id)

	k, err := scanFact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.StoredKnowledge{}, fmt.Errorf("memory %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.StoredKnowledge{}, fmt.Errorf("failed to get fact: %w", err)
	}
	return k, nil
}

// ListFacts returns the user's facts, newest first.
func (r *KnowledgeRepo) ListFacts(ctx context.Context, userID string) ([]core.StoredKnowledge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, fact, category, source, fact_hash, created_at, updated_at
		 FROM memories WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	facts := make([]core.StoredKnowledge, 0)
	for rows.Next() {
		k, err := scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, k)
	}
	return facts, rows.Err()
}

func (r *KnowledgeRepo) UpdateFact(ctx context.Context, userID, id, fact, factHash string) (core.StoredKnowledge, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE memories SET fact = ?, fact_hash = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		fact, factHash, now, userID, id)
	if err != nil {
		if isDuplicateError(err) {
			return core.StoredKnowledge{}, fmt.Errorf("fact already known: %w", core.ErrDuplicate)
		}
		return core.StoredKnowledge{}, fmt.Errorf("failed to update fact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.StoredKnowledge{}, fmt.Errorf("memory %s: %w", id, core.ErrNotFound)
	}
	return r.GetFact(ctx, userID, id)
}

func (r *KnowledgeRepo) DeleteFact(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete fact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("memory %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *KnowledgeRepo) DeleteAllFacts(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete facts: %w", err)
	}
	return nil
}

func scanFact(row rowScanner) (core.StoredKnowledge, error) {
	var k core.StoredKnowledge
	var updated sql.NullTime
	if err := row.Scan(&k.ID, &k.UserID, &k.Fact, &k.Category, &k.Source, &k.FactHash, &k.CreatedAt, &updated); err != nil {
		return k, err
	}
	if updated.Valid {
		t := updated.Time
		k.UpdatedAt = &t
	}
	return k, nil
}

func isDuplicateError(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
