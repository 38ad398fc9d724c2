package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/log"
)

// LocalStore keeps memories in the application database and extracts them
// with the configured chat model.
type LocalStore struct {
	repo      core.KnowledgeRepository
	extractor *Extractor
}

func NewLocalStore(repo core.KnowledgeRepository, extractor *Extractor) *LocalStore {
	return &LocalStore{repo: repo, extractor: extractor}
}

func (s *LocalStore) Add(ctx context.Context, userID string, conversation []core.Message) ([]core.Memory, error) {
	facts, err := s.extractor.Extract(ctx, conversation)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	logger := log.FromCtx(ctx)
	saved := make([]core.Memory, 0, len(facts))
	for _, f := range facts {
		k, err := s.repo.SaveFact(ctx, core.StoredKnowledge{
			UserID:   userID,
			Fact:     f.Fact,
			Category: f.Category,
			Source:   "extracted",
			FactHash: factHash(f.Fact),
		})
		if errors.Is(err, core.ErrDuplicate) {
			continue
		}
		if err != nil {
			return saved, fmt.Errorf("save fact: %w", err)
		}
		logger.Info().Str("user_id", userID).Str("category", f.Category).Msg("memory extracted")
		saved = append(saved, k.ToMemory())
	}
	return saved, nil
}

// AddText stores text as written. Adding a fact the user already has
// returns the existing memory.
func (s *LocalStore) AddText(ctx context.Context, userID, text string) (core.Memory, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.Memory{}, fmt.Errorf("memory text is empty: %w", core.ErrInvalidInput)
	}

	hash := factHash(text)
	k, err := s.repo.SaveFact(ctx, core.StoredKnowledge{
		UserID:   userID,
		Fact:     text,
		Category: "user_fact",
		Source:   "manual",
		FactHash: hash,
	})
	if errors.Is(err, core.ErrDuplicate) {
		return s.findByHash(ctx, userID, hash)
	}
	if err != nil {
		return core.Memory{}, err
	}
	return k.ToMemory(), nil
}

func (s *LocalStore) findByHash(ctx context.Context, userID, hash string) (core.Memory, error) {
	facts, err := s.repo.ListFacts(ctx, userID)
	if err != nil {
		return core.Memory{}, err
	}
	for _, f := range facts {
		if f.FactHash == hash {
			return f.ToMemory(), nil
		}
	}
	return core.Memory{}, core.ErrNotFound
}

func (s *LocalStore) Search(ctx context.Context, userID, query string, limit int) ([]core.Memory, error) {
	all, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rank(all, query, limit), nil
}

func (s *LocalStore) List(ctx context.Context, userID string) ([]core.Memory, error) {
	facts, err := s.repo.ListFacts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	out := make([]core.Memory, 0, len(facts))
	for _, f := range facts {
		out = append(out, f.ToMemory())
	}
	return out, nil
}

func (s *LocalStore) Update(ctx context.Context, userID, memoryID, text string) (core.Memory, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.Memory{}, fmt.Errorf("memory text is empty: %w", core.ErrInvalidInput)
	}
	k, err := s.repo.UpdateFact(ctx, userID, memoryID, text, factHash(text))
	if err != nil {
		return core.Memory{}, err
	}
	return k.ToMemory(), nil
}

func (s *LocalStore) Delete(ctx context.Context, userID, memoryID string) error {
	return s.repo.DeleteFact(ctx, userID, memoryID)
}

func (s *LocalStore) DeleteAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAllFacts(ctx, userID)
}

// factHash identifies a fact regardless of case, spacing and trailing
// punctuation.
func factHash(fact string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(fact)), " ")
	norm = strings.TrimRight(norm, ".!?;, ")
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])
}
