package chat

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTurn(text string) []core.Message {
	return []core.Message{{Role: core.RoleUser, Content: text}}
}

func TestTurn_UnauthorizedCalmToday(t *testing.T) {
	ai := &scriptedAI{chunks: []string{"Try a slow ", "breath."}}
	f := newFixture(t, ai)

	var buf bytes.Buffer
	res, err := f.svc.Turn(context.Background(), TurnRequest{
		Meta:     core.SessionMeta{User: core.User{ID: " Ann@Example.com "}},
		Messages: userTurn("How can I stay calm today?"),
	}, &buf, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionID)
	assert.False(t, res.Failed)
	assert.Equal(t, "Try a slow breath.", buf.String())
	assert.NotContains(t, ai.system, "The user's calendar:")
	assert.NotContains(t, ai.system, "Calendar note:")

	session, msgs, err := f.svc.Conversation(context.Background(), res.SessionID, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", session.UserID)
	assert.Equal(t, "How can I stay calm today?", session.Title)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "How can I stay calm today?", msgs[0].Content)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Try a slow breath.", msgs[1].Content)
	for _, m := range msgs {
		assert.Equal(t, res.SessionID, m.SessionID)
	}
}

func TestTurn_SessionOfAnotherUser(t *testing.T) {
	ai := &scriptedAI{chunks: []string{"Noted."}}
	f := newFixture(t, ai)
	ctx := context.Background()

	var buf bytes.Buffer
	_, err := f.svc.Turn(ctx, TurnRequest{
		SessionID: "s-ann",
		Meta:      core.SessionMeta{User: core.User{ID: "ann@example.com"}},
		Messages:  userTurn("I slept badly"),
	}, &buf, nil)
	require.NoError(t, err)

	buf.Reset()
	_, err = f.svc.Turn(ctx, TurnRequest{
		SessionID: "s-ann",
		Meta:      core.SessionMeta{User: core.User{ID: "mallory@example.com"}},
		Messages:  userTurn("injected"),
	}, &buf, nil)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, buf.String())

	session, msgs, err := f.svc.Conversation(ctx, "s-ann", "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", session.UserID)
	require.Len(t, msgs, 2)
	assert.Equal(t, "I slept badly", msgs[0].Content)

	_, _, err = f.svc.Conversation(ctx, "s-ann", "mallory@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = f.svc.RenameSession(ctx, "s-ann", "mallory@example.com", "mine")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteSession(ctx, "s-ann", "mallory@example.com"), core.ErrNotFound)
	_, _, err = f.svc.StartSession(ctx, "s-ann", "mallory@example.com", "hi", "")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, _, err = f.svc.Conversation(ctx, "s-ann", "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTurn_AuthorizedMeetingsToday(t *testing.T) {
	ai := &scriptedAI{chunks: []string{"You have three things today."}}
	f := newFixture(t, ai)

	res, err := f.svc.Turn(context.Background(), TurnRequest{
		SessionID: "s-meetings",
		Meta: core.SessionMeta{
			User:               core.User{ID: "alex@example.com"},
			CalendarPermission: true,
			Persona:            "alex",
		},
		Messages: userTurn("What meetings do I have today?"),
	}, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "s-meetings", res.SessionID)

	assert.Contains(t, ai.system, "The user's calendar:")
	assert.Contains(t, ai.system,
		"Today's events:\n- Standup (9:00 AM)\n- Design review (2:00 PM)\n- Call with mom (7:00 PM)")
}

func TestTurn_StreamFailure(t *testing.T) {
	tests := []struct {
		name    string
		chunks  []string
		written string
	}{
		{name: "before any text", chunks: nil, written: Apology},
		{name: "after partial text", chunks: []string{"Let me"}, written: "Let me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &scriptedAI{chunks: tt.chunks, err: errors.New("upstream 503")}
			f := newFixture(t, ai)

			var buf bytes.Buffer
			res, err := f.svc.Turn(context.Background(), TurnRequest{
				Meta:     core.SessionMeta{User: core.User{ID: "ann@example.com"}},
				Messages: userTurn("hello"),
			}, &buf, nil)
			require.NoError(t, err)

			assert.True(t, res.Failed)
			assert.Equal(t, Apology, res.Reply)
			assert.Equal(t, tt.written, buf.String())

			_, msgs, err := f.svc.Conversation(context.Background(), res.SessionID, "ann@example.com")
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, Apology, msgs[1].Content)

			f.memory.none(t)
		})
	}
}

func TestTurn_ExtractionGetsLastFive(t *testing.T) {
	ai := &scriptedAI{chunks: []string{"reply"}}
	f := newFixture(t, ai)

	history := []core.Message{
		{Role: core.RoleUser, Content: "m1"},
		{Role: core.RoleAssistant, Content: "m2"},
		{Role: core.RoleUser, Content: "m3"},
		{Role: core.RoleAssistant, Content: "m4"},
		{Role: core.RoleUser, Content: "m5"},
		{Role: core.RoleAssistant, Content: "m6"},
		{Role: core.RoleUser, Content: "m7"},
	}
	_, err := f.svc.Turn(context.Background(), TurnRequest{
		Meta:     core.SessionMeta{User: core.User{ID: "ann@example.com"}},
		Messages: history,
	}, &bytes.Buffer{}, nil)
	require.NoError(t, err)

	got := f.memory.next(t)
	require.Len(t, got, ExtractionWindow)
	texts := make([]string, len(got))
	for i, m := range got {
		texts[i] = m.Text()
	}
	assert.Equal(t, []string{"m4", "m5", "m6", "m7", "reply"}, texts)
}

func TestTurn_Validation(t *testing.T) {
	f := newFixture(t, &scriptedAI{})
	ctx := context.Background()

	_, err := f.svc.Turn(ctx, TurnRequest{Messages: userTurn("hi")}, &bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = f.svc.Turn(ctx, TurnRequest{
		Meta:     core.SessionMeta{User: core.User{ID: "ann@example.com"}},
		Messages: []core.Message{{Role: core.RoleAssistant, Content: "hello"}},
	}, &bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestReply_UsesStoredHistory(t *testing.T) {
	ai := &scriptedAI{chunks: []string{"ok"}}
	f := newFixture(t, ai)
	ctx := context.Background()
	meta := core.SessionMeta{User: core.User{ID: "ann@example.com"}}

	_, err := f.svc.Reply(ctx, "s-cli", meta, "first", &bytes.Buffer{}, nil)
	require.NoError(t, err)
	_, err = f.svc.Reply(ctx, "s-cli", meta, "second", &bytes.Buffer{}, nil)
	require.NoError(t, err)

	require.Len(t, ai.history, 3)
	assert.Equal(t, "first", ai.history[0].Text())
	assert.Equal(t, "ok", ai.history[1].Text())
	assert.Equal(t, "second", ai.history[2].Text())
}

func TestStartSessionAndManage(t *testing.T) {
	f := newFixture(t, &scriptedAI{})
	ctx := context.Background()

	s, first, err := f.svc.StartSession(ctx, "", "Ann@Example.com", "I had a long week", "")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "I had a long week", s.Title)
	assert.Equal(t, "ann@example.com", s.UserID)

	again, none, err := f.svc.StartSession(ctx, s.ID, "ann@example.com", "", "Other")
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Equal(t, "I had a long week", again.Title)

	renamed, err := f.svc.RenameSession(ctx, s.ID, "ann@example.com", "Week review")
	require.NoError(t, err)
	assert.Equal(t, "Week review", renamed.Title)

	list, err := f.svc.ListSessions(ctx, "ann@example.com", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteSession(ctx, s.ID, "ann@example.com"))
	_, _, err = f.svc.Conversation(ctx, s.ID, "ann@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
