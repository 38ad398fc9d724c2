package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/log"
	"github.com/sandevgo/mindful/pkg/retry"
)

// Mem0 is a client for a mem0-compatible hosted memory store.
type Mem0 struct {
	baseClient
}

func NewMem0(baseURL, apiKey string) *Mem0 {
	return NewMem0WithRetrier(baseURL, apiKey, retry.NewDefaultRetrier())
}

func NewMem0WithRetrier(baseURL, apiKey string, r *retry.Retrier) *Mem0 {
	return &Mem0{baseClient: newBaseClient(baseURL, apiKey, r)}
}

type mem0Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mem0Record struct {
	ID        string         `json:"id"`
	Memory    string         `json:"memory"`
	Text      string         `json:"text,omitempty"`
	UserID    string         `json:"user_id"`
	Score     float64        `json:"score,omitempty"`
	Event     string         `json:"event,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
	Data      *struct {
		Memory string `json:"memory"`
	} `json:"data,omitempty"`
}

func (r mem0Record) toMemory(userID string) core.Memory {
	text := r.Memory
	if text == "" && r.Data != nil {
		text = r.Data.Memory
	}
	if text == "" {
		text = r.Text
	}
	m := core.Memory{
		ID:     r.ID,
		UserID: userID,
		Text:   text,
		Score:  r.Score,
	}
	if c, ok := r.Metadata["category"].(string); ok {
		m.Category = c
	}
	if t, ok := parseTime(r.CreatedAt); ok {
		m.CreatedAt = t
	}
	if t, ok := parseTime(r.UpdatedAt); ok {
		m.UpdatedAt = &t
	}
	return m
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// mem0 answers some endpoints with a bare list and others with
// {"results": [...]}.
type recordList []mem0Record

func (l *recordList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, (*[]mem0Record)(l))
	}
	var wrapped struct {
		Results []mem0Record `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Results
	return nil
}

func (m *Mem0) Add(ctx context.Context, userID string, conversation []core.Message) ([]core.Memory, error) {
	msgs := make([]mem0Message, 0, len(conversation))
	for _, c := range conversation {
		if text := strings.TrimSpace(c.Text()); text != "" {
			msgs = append(msgs, mem0Message{Role: string(c.Role), Content: text})
		}
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	var out recordList
	body := map[string]any{"messages": msgs, "user_id": userID}
	if err := m.doJSON(ctx, http.MethodPost, "/v1/memories/", body, &out); err != nil {
		return nil, fmt.Errorf("add memories: %w", err)
	}

	res := make([]core.Memory, 0, len(out))
	for _, r := range out {
		res = append(res, r.toMemory(userID))
	}
	log.FromCtx(ctx).Debug().Str("user_id", userID).Int("count", len(res)).Msg("mem0 add")
	return res, nil
}

// AddText stores text verbatim; inference is disabled so the store keeps
// the user's own wording.
func (m *Mem0) AddText(ctx context.Context, userID, text string) (core.Memory, error) {
	var out recordList
	body := map[string]any{
		"messages": []mem0Message{{Role: string(core.RoleUser), Content: text}},
		"user_id":  userID,
		"infer":    false,
	}
	if err := m.doJSON(ctx, http.MethodPost, "/v1/memories/", body, &out); err != nil {
		return core.Memory{}, fmt.Errorf("add memory: %w", err)
	}
	if len(out) == 0 {
		return core.Memory{UserID: userID, Text: text, CreatedAt: time.Now().UTC()}, nil
	}
	mem := out[0].toMemory(userID)
	if mem.Text == "" {
		mem.Text = text
	}
	return mem, nil
}

func (m *Mem0) Search(ctx context.Context, userID, query string, limit int) ([]core.Memory, error) {
	var out recordList
	body := map[string]any{"query": query, "user_id": userID, "limit": limit}
	if err := m.doJSON(ctx, http.MethodPost, "/v1/memories/search/", body, &out); err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}

	res := make([]core.Memory, 0, len(out))
	for _, r := range out {
		res = append(res, r.toMemory(userID))
	}
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *Mem0) List(ctx context.Context, userID string) ([]core.Memory, error) {
	var out recordList
	path := "/v1/memories/?user_id=" + url.QueryEscape(userID)
	if err := m.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}

	res := make([]core.Memory, 0, len(out))
	for _, r := range out {
		res = append(res, r.toMemory(userID))
	}
	return res, nil
}

// ownedRecord loads a memory and hides it from anyone but its owner. The
// mem0 API addresses memories by id alone.
func (m *Mem0) ownedRecord(ctx context.Context, userID, memoryID string) error {
	var rec mem0Record
	if err := m.doJSON(ctx, http.MethodGet, memoryPath(memoryID), nil, &rec); err != nil {
		return err
	}
	if rec.UserID != userID {
		return fmt.Errorf("memory %s: %w", memoryID, core.ErrNotFound)
	}
	return nil
}

func memoryPath(memoryID string) string {
	return "/v1/memories/" + url.PathEscape(memoryID) + "/"
}

func (m *Mem0) Update(ctx context.Context, userID, memoryID, text string) (core.Memory, error) {
	if err := m.ownedRecord(ctx, userID, memoryID); err != nil {
		return core.Memory{}, fmt.Errorf("update memory: %w", err)
	}
	var out mem0Record
	path := memoryPath(memoryID)
	if err := m.doJSON(ctx, http.MethodPut, path, map[string]any{"text": text}, &out); err != nil {
		return core.Memory{}, fmt.Errorf("update memory: %w", err)
	}
	mem := out.toMemory(userID)
	if mem.ID == "" {
		mem.ID = memoryID
	}
	if mem.Text == "" {
		mem.Text = text
	}
	return mem, nil
}

func (m *Mem0) Delete(ctx context.Context, userID, memoryID string) error {
	if err := m.ownedRecord(ctx, userID, memoryID); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if err := m.doJSON(ctx, http.MethodDelete, memoryPath(memoryID), nil, nil); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}

func (m *Mem0) DeleteAll(ctx context.Context, userID string) error {
	path := "/v1/memories/?user_id=" + url.QueryEscape(userID)
	if err := m.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete memories: %w", err)
	}
	return nil
}
