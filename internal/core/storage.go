package core

import (
	"context"
	"time"
)

type SessionsRepository interface {
	// CreateSession inserts the session unless one with the same id exists.
	// It reports whether a new row was written.
	CreateSession(ctx context.Context, s Session) (bool, error)
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]Session, error)
	RenameSession(ctx context.Context, id, title string) (Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) (time.Time, error)
	DeleteSession(ctx context.Context, id string) error
}

type MessagesRepository interface {
	AddMessage(ctx context.Context, msg Message) (Message, error)
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
}

type KnowledgeRepository interface {
	SaveFact(ctx context.Context, fact StoredKnowledge) (StoredKnowledge, error)
	GetFact(ctx context.Context, userID, id string) (StoredKnowledge, error)
	ListFacts(ctx context.Context, userID string) ([]StoredKnowledge, error)
	UpdateFact(ctx context.Context, userID, id, fact, factHash string) (StoredKnowledge, error)
	DeleteFact(ctx context.Context, userID, id string) error
	DeleteAllFacts(ctx context.Context, userID string) error
}

type StoredKnowledge struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Fact      string     `json:"fact"`
	Category  string     `json:"category"`
	Source    string     `json:"source"`
	FactHash  string     `json:"fact_hash"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (k StoredKnowledge) ToMemory() Memory {
	return Memory{
		ID:        k.ID,
		UserID:    k.UserID,
		Text:      k.Fact,
		Category:  k.Category,
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}
