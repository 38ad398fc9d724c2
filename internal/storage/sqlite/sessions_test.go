package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsRepo_CreateIsFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionsRepo(newTestDB(t))

	created, err := repo.CreateSession(ctx, core.Session{ID: "s1", UserID: "ann@example.com", Title: "First"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateSession(ctx, core.Session{ID: "s1", UserID: "ann@example.com", Title: "Second"})
	require.NoError(t, err)
	assert.False(t, created)

	s, err := repo.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "First", s.Title)
}

func TestSessionsRepo_GetMissing(t *testing.T) {
	repo := NewSessionsRepo(newTestDB(t))
	_, err := repo.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSessionsRepo_TouchIsMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionsRepo(newTestDB(t))

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := repo.CreateSession(ctx, core.Session{ID: "s1", UserID: "u", Title: "t", CreatedAt: base})
	require.NoError(t, err)

	later, err := repo.TouchSession(ctx, "s1", base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, later.Equal(base.Add(time.Hour)))

	// A clock step backwards must not move updated_at back.
	again, err := repo.TouchSession(ctx, "s1", base.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, again.Equal(later))

	s, err := repo.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, s.UpdatedAt.Equal(later))
}

func TestSessionsRepo_ListRenameDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSessionsRepo(db)
	msgs := NewMessagesRepo(db)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_, err := repo.CreateSession(ctx, core.Session{
			ID: id, UserID: "u", Title: id, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.CreateSession(ctx, core.Session{ID: "other", UserID: "v", Title: "x"})
	require.NoError(t, err)

	_, err = repo.TouchSession(ctx, "a", base.Add(time.Hour))
	require.NoError(t, err)

	list, err := repo.ListSessions(ctx, "u", 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})

	renamed, err := repo.RenameSession(ctx, "b", "Sleep notes")
	require.NoError(t, err)
	assert.Equal(t, "Sleep notes", renamed.Title)

	_, err = repo.RenameSession(ctx, "missing", "x")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = msgs.AddMessage(ctx, core.Message{SessionID: "c", Role: core.RoleUser, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSession(ctx, "c"))
	assert.ErrorIs(t, repo.DeleteSession(ctx, "c"), core.ErrNotFound)

	left, err := msgs.GetMessages(ctx, "c", 0)
	require.NoError(t, err)
	assert.Empty(t, left)
}
