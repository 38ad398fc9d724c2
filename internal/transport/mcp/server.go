package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/service/assembler"
	"github.com/sandevgo/mindful/pkg/log"
)

// tools exposes memories and calendars to MCP clients such as desktop
// assistants.
type tools struct {
	memory    core.MemoryStore
	calendars core.CalendarProvider
	clock     func() time.Time
}

func NewServer(memory core.MemoryStore, calendars core.CalendarProvider) *server.MCPServer {
	return newServer(&tools{memory: memory, calendars: calendars, clock: time.Now})
}

func newServer(t *tools) *server.MCPServer {
	s := server.NewMCPServer(core.AppName, core.AppVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcpproto.NewTool("search_memories",
		mcpproto.WithDescription("Search what is remembered about a user. Without a query every memory is returned."),
		mcpproto.WithString("user_id", mcpproto.Required(), mcpproto.Description("User identity, usually an email")),
		mcpproto.WithString("query", mcpproto.Description("Free text to match against memories")),
		mcpproto.WithNumber("limit", mcpproto.Description("Maximum number of memories, default 10")),
	), t.searchMemories)

	s.AddTool(mcpproto.NewTool("add_memory",
		mcpproto.WithDescription("Store one fact about a user."),
		mcpproto.WithString("user_id", mcpproto.Required(), mcpproto.Description("User identity, usually an email")),
		mcpproto.WithString("text", mcpproto.Required(), mcpproto.Description("The fact, phrased about the user")),
	), t.addMemory)

	s.AddTool(mcpproto.NewTool("calendar_events",
		mcpproto.WithDescription("List a user's calendar for the last 30 days, today and the next 30 days, or search it."),
		mcpproto.WithString("persona", mcpproto.Description("Demo persona calendar, e.g. alex")),
		mcpproto.WithString("access_token", mcpproto.Description("Google OAuth access token")),
		mcpproto.WithString("query", mcpproto.Description("Search text; when set, matching events are returned as JSON")),
	), t.calendarEvents)

	return s
}

// NewHandler serves the MCP server over streamable HTTP.
func NewHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

func (t *tools) searchMemories(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	userID = core.NormalizeUserID(userID)
	query := strings.TrimSpace(req.GetString("query", ""))
	limit := req.GetInt("limit", 10)

	var memories []core.Memory
	if query == "" {
		memories, err = t.memory.List(ctx, userID)
	} else {
		memories, err = t.memory.Search(ctx, userID, query, limit)
	}
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("mcp memory search failed")
		return mcpproto.NewToolResultErrorFromErr("memory search failed", err), nil
	}
	if len(memories) == 0 {
		return mcpproto.NewToolResultText("No memories found."), nil
	}

	var sb strings.Builder
	for _, m := range memories {
		fmt.Fprintf(&sb, "- %s (id: %s)\n", m.Text, m.ID)
	}
	return mcpproto.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

func (t *tools) addMemory(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	m, err := t.memory.AddText(ctx, core.NormalizeUserID(userID), text)
	if err != nil {
		return mcpproto.NewToolResultErrorFromErr("failed to store memory", err), nil
	}
	return mcpproto.NewToolResultText(fmt.Sprintf("Stored memory %s.", m.ID)), nil
}

func (t *tools) calendarEvents(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	meta := core.SessionMeta{
		Persona:     req.GetString("persona", ""),
		AccessToken: req.GetString("access_token", ""),
	}

	src, err := t.calendars.ForSession(ctx, meta)
	if err != nil {
		return calendarError(err), nil
	}

	if query := strings.TrimSpace(req.GetString("query", "")); query != "" {
		events, err := src.Search(ctx, query)
		if err != nil {
			return calendarError(err), nil
		}
		raw, err := json.Marshal(events)
		if err != nil {
			return nil, err
		}
		return mcpproto.NewToolResultText(string(raw)), nil
	}

	windows, err := src.Windows(ctx, t.clock())
	if err != nil {
		return calendarError(err), nil
	}
	return mcpproto.NewToolResultText(strings.TrimSpace(assembler.FormatCalendar(windows))), nil
}

func calendarError(err error) *mcpproto.CallToolResult {
	switch {
	case errors.Is(err, core.ErrCalendarUnauthorized):
		return mcpproto.NewToolResultError("calendar is not connected: provide a persona or an access token")
	case errors.Is(err, core.ErrNotFound):
		return mcpproto.NewToolResultError(err.Error())
	default:
		return mcpproto.NewToolResultErrorFromErr("calendar unavailable", err)
	}
}
