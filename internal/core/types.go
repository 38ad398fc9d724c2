package core

import (
	"strings"
	"time"
)

const (
	AppName      = "Mindful"
	AppUserAgent = "Mindful-Companion/0.1"
	AppVersion   = "0.1.0"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return true
	}
	return false
}

type PartType string

const (
	PartText           PartType = "text"
	PartReasoning      PartType = "reasoning"
	PartToolInvocation PartType = "tool-invocation"
	PartSource         PartType = "source"
)

// Part is one typed fragment of a structured message.
type Part struct {
	Type PartType `json:"type"`
	Text string   `json:"text,omitempty"`
}

// Message is either legacy (Parts == nil, Content holds the text) or
// structured (Parts non-empty). Use Text to read either form.
type Message struct {
	ID        string    `json:"id,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content,omitempty"`
	Parts     []Part    `json:"parts,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is the authenticated caller. ID is already normalized.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// SessionMeta carries per-request authorization state sent by the client.
type SessionMeta struct {
	User               User   `json:"user"`
	AccessToken        string `json:"accessToken,omitempty"`
	CalendarPermission bool   `json:"calendarPermission,omitempty"`
	Persona            string `json:"persona,omitempty"`
}

func (m SessionMeta) CalendarAuthorized() bool {
	return m.CalendarPermission || m.AccessToken != ""
}

// NormalizeUserID trims and lowercases an identity string.
func NormalizeUserID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

type Memory struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Text      string     `json:"text"`
	Category  string     `json:"category,omitempty"`
	Score     float64    `json:"score,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// EventTime holds either a timed instant or an all-day date (YYYY-MM-DD).
type EventTime struct {
	DateTime *time.Time `json:"dateTime,omitempty" yaml:"-"`
	Date     string     `json:"date,omitempty" yaml:"-"`
}

type CalendarEvent struct {
	Summary     string    `json:"summary"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
}

// CalendarWindows is the composite result of one calendar fetch.
type CalendarWindows struct {
	Past     []CalendarEvent `json:"past"`
	Today    []CalendarEvent `json:"today"`
	Upcoming []CalendarEvent `json:"upcoming"`
}

// AssembledContext is built per request and never persisted.
type AssembledContext struct {
	SystemPrompt  string
	MemoryBlock   string
	CalendarBlock string
}

// Chunk is one piece of a streamed model response. A chunk with Err set
// terminates the stream.
type Chunk struct {
	Text string
	Err  error
}
