package command

import (
	"context"

	"github.com/google/uuid"
	"github.com/sandevgo/mindful/internal/core"
)

type NewSessionCommand struct {
	formatter *ResponseFormatter
}

func NewNewSessionCommand() core.Command {
	return &NewSessionCommand{formatter: NewResponseFormatter()}
}

func (c *NewSessionCommand) Name() string {
	return "new"
}

func (c *NewSessionCommand) Description() string {
	return "Start a fresh conversation"
}

// Execute only switches the session id; the session row is created with the
// first message.
func (c *NewSessionCommand) Execute(ctx context.Context, chat *core.ChatRef, args []string) (string, error) {
	chat.SessionID = uuid.NewString()
	return c.formatter.Success("New conversation started. What's on your mind?"), nil
}
