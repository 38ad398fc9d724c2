package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/providers/calendar"
	memsvc "github.com/sandevgo/mindful/internal/service/memory"
	"github.com/sandevgo/mindful/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noAI struct{}

func (noAI) Stream(ctx context.Context, system string, history []core.Message) (<-chan core.Chunk, error) {
	ch := make(chan core.Chunk)
	close(ch)
	return ch, nil
}

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlite.NewDB(ctx, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fixtures, err := calendar.LoadFixtures()
	require.NoError(t, err)

	s := newServer(&tools{
		memory:    memsvc.NewLocalStore(sqlite.NewKnowledgeRepo(db), memsvc.NewExtractor(noAI{})),
		calendars: calendar.NewProvider(&config.CalendarConfig{Backend: config.CalendarBackendGoogle}, fixtures),
		clock:     func() time.Time { return time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC) },
	})

	cli, err := client.NewInProcessClient(s)
	require.NoError(t, err)
	require.NoError(t, cli.Start(ctx))
	t.Cleanup(func() { cli.Close() })

	req := mcpproto.InitializeRequest{}
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.Capabilities = mcpproto.ClientCapabilities{}
	req.Params.ClientInfo = mcpproto.Implementation{Name: "test", Version: "0"}
	_, err = cli.Initialize(ctx, req)
	require.NoError(t, err)
	return cli
}

func call(t *testing.T, cli *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := cli.CallTool(context.Background(), req)
	require.NoError(t, err)

	var sb strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			sb.WriteString(text.Text)
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			sb.WriteString(textPtr.Text)
		}
	}
	return sb.String(), res.IsError
}

func TestListTools(t *testing.T) {
	cli := newTestClient(t)
	resp, err := cli.ListTools(context.Background(), mcpproto.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range resp.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search_memories", "add_memory", "calendar_events"}, names)
}

func TestMemoryTools(t *testing.T) {
	cli := newTestClient(t)

	out, isErr := call(t, cli, "search_memories", map[string]any{"user_id": "ann@example.com"})
	assert.False(t, isErr)
	assert.Equal(t, "No memories found.", out)

	out, isErr = call(t, cli, "add_memory", map[string]any{"user_id": "Ann@example.com", "text": "Loves swimming"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "Stored memory")

	out, isErr = call(t, cli, "search_memories", map[string]any{"user_id": "ann@example.com", "query": "swimming"})
	assert.False(t, isErr)
	assert.Contains(t, out, "- Loves swimming (id: ")

	_, isErr = call(t, cli, "add_memory", map[string]any{"user_id": "ann@example.com"})
	assert.True(t, isErr)
}

func TestCalendarTool(t *testing.T) {
	cli := newTestClient(t)

	out, isErr := call(t, cli, "calendar_events", map[string]any{"persona": "alex"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "Today's events:\n- Standup (9:00 AM)")

	out, isErr = call(t, cli, "calendar_events", map[string]any{"persona": "alex", "query": "yoga"})
	require.False(t, isErr, out)
	assert.Contains(t, out, `"summary":"Yoga class"`)

	out, isErr = call(t, cli, "calendar_events", map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, out, "not connected")
}
