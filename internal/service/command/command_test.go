package command

import (
	"context"
	"fmt"
	"testing"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapMemory struct {
	byID map[string]core.Memory
	seq  int
}

func newMapMemory(texts ...string) *mapMemory {
	m := &mapMemory{byID: make(map[string]core.Memory)}
	for _, t := range texts {
		m.AddText(context.Background(), "ann", t)
	}
	return m
}

func (m *mapMemory) Add(ctx context.Context, userID string, conversation []core.Message) ([]core.Memory, error) {
	return nil, nil
}

func (m *mapMemory) AddText(ctx context.Context, userID, text string) (core.Memory, error) {
	m.seq++
	mem := core.Memory{ID: fmt.Sprintf("m%d", m.seq), UserID: userID, Text: text}
	m.byID[mem.ID] = mem
	return mem, nil
}

func (m *mapMemory) Search(ctx context.Context, userID, query string, limit int) ([]core.Memory, error) {
	return m.List(ctx, userID)
}

func (m *mapMemory) List(ctx context.Context, userID string) ([]core.Memory, error) {
	out := make([]core.Memory, 0, len(m.byID))
	for i := 1; i <= m.seq; i++ {
		if mem, ok := m.byID[fmt.Sprintf("m%d", i)]; ok && mem.UserID == userID {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *mapMemory) Update(ctx context.Context, userID, memoryID, text string) (core.Memory, error) {
	return core.Memory{}, nil
}

func (m *mapMemory) Delete(ctx context.Context, userID, memoryID string) error {
	if _, ok := m.byID[memoryID]; !ok {
		return core.ErrNotFound
	}
	delete(m.byID, memoryID)
	return nil
}

func (m *mapMemory) DeleteAll(ctx context.Context, userID string) error {
	m.byID = make(map[string]core.Memory)
	return nil
}

func TestRouter(t *testing.T) {
	mem := newMapMemory("Likes tea", "Runs on Sundays")
	r := New(NewCommands(mem))
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		handled bool
		want    []string
	}{
		{name: "plain text", input: "I feel tired", handled: false},
		{name: "help", input: "/help", handled: true, want: []string{"/new", "/memories", "/forget", "/remember", "/help"}},
		{name: "telegram suffix", input: "/help@mindful_bot", handled: true, want: []string{"/new"}},
		{name: "unknown", input: "/dance", handled: true, want: []string{"Unknown command: /dance"}},
		{name: "memories", input: "/memories", handled: true, want: []string{"Memories (2)", "Likes tea `m1`", "Runs on Sundays `m2`"}},
		{name: "forget usage", input: "/forget", handled: true, want: []string{"/forget <id|all>"}},
		{name: "forget missing", input: "/forget nope", handled: true, want: []string{"No memory with id `nope`"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &core.ChatRef{UserID: "ann", SessionID: "s1"}
			out, handled := r.Execute(ctx, chat, tt.input)
			assert.Equal(t, tt.handled, handled)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestNewSessionCommandSwitchesSession(t *testing.T) {
	r := New(NewCommands(newMapMemory()))
	chat := &core.ChatRef{UserID: "ann", SessionID: "s1"}

	_, handled := r.Execute(context.Background(), chat, "/new")
	require.True(t, handled)
	assert.NotEqual(t, "s1", chat.SessionID)
	assert.NotEmpty(t, chat.SessionID)
}

func TestRememberAndForget(t *testing.T) {
	mem := newMapMemory()
	r := New(NewCommands(mem))
	ctx := context.Background()
	chat := &core.ChatRef{UserID: "ann"}

	out, _ := r.Execute(ctx, chat, "/remember I journal every night")
	assert.Contains(t, out, "m1")
	require.Len(t, mem.byID, 1)
	assert.Equal(t, "I journal every night", mem.byID["m1"].Text)

	out, _ = r.Execute(ctx, chat, "/forget m1")
	assert.Contains(t, out, "Forgotten")
	assert.Empty(t, mem.byID)

	r.Execute(ctx, chat, "/remember a")
	r.Execute(ctx, chat, "/remember b")
	out, _ = r.Execute(ctx, chat, "/forget ALL")
	assert.Contains(t, out, "All memories deleted")
	assert.Empty(t, mem.byID)

	out, _ = r.Execute(ctx, chat, "/memories")
	assert.Contains(t, out, "don't remember anything")
}

func TestListCommandsSorted(t *testing.T) {
	r := New(NewCommands(newMapMemory()))
	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"forget", "memories", "new", "remember"}, names)
}
