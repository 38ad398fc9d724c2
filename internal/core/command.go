package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, chat *ChatRef, input string) (string, bool)
	ListCommands() []Command
}

// ChatRef identifies the conversation a command runs against. Commands may
// replace SessionID (for example when starting a new conversation).
type ChatRef struct {
	UserID    string
	SessionID string
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, chat *ChatRef, args []string) (string, error)
}
