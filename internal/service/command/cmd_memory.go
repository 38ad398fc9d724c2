package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
)

type MemoriesCommand struct {
	memory    core.MemoryStore
	formatter *ResponseFormatter
}

func NewMemoriesCommand(memory core.MemoryStore) core.Command {
	return &MemoriesCommand{memory: memory, formatter: NewResponseFormatter()}
}

func (c *MemoriesCommand) Name() string {
	return "memories"
}

func (c *MemoriesCommand) Description() string {
	return "Show what I remember about you (optionally filtered by a query)"
}

func (c *MemoriesCommand) Execute(ctx context.Context, chat *core.ChatRef, args []string) (string, error) {
	var (
		memories []core.Memory
		err      error
	)
	if query := strings.Join(args, " "); query != "" {
		memories, err = c.memory.Search(ctx, chat.UserID, query, 20)
	} else {
		memories, err = c.memory.List(ctx, chat.UserID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load memories: %w", err)
	}

	if len(memories) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Memories"),
			"I don't remember anything about you yet.",
		), nil
	}

	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Memories (%d)", len(memories))),
		c.formatter.Memories(memories),
		c.formatter.Tip("Use /forget <id> to remove one, or /forget all."),
	), nil
}

type RememberCommand struct {
	memory    core.MemoryStore
	formatter *ResponseFormatter
}

func NewRememberCommand(memory core.MemoryStore) core.Command {
	return &RememberCommand{memory: memory, formatter: NewResponseFormatter()}
}

func (c *RememberCommand) Name() string {
	return "remember"
}

func (c *RememberCommand) Description() string {
	return "Save a fact about you"
}

func (c *RememberCommand) Execute(ctx context.Context, chat *core.ChatRef, args []string) (string, error) {
	text := strings.Join(args, " ")
	if text == "" {
		return c.formatter.Usage("/remember <fact>"), nil
	}
	m, err := c.memory.AddText(ctx, chat.UserID, text)
	if err != nil {
		return "", fmt.Errorf("failed to save memory: %w", err)
	}
	return c.formatter.Success(fmt.Sprintf("I'll remember that. `%s`", m.ID)), nil
}

type ForgetCommand struct {
	memory    core.MemoryStore
	formatter *ResponseFormatter
}

func NewForgetCommand(memory core.MemoryStore) core.Command {
	return &ForgetCommand{memory: memory, formatter: NewResponseFormatter()}
}

func (c *ForgetCommand) Name() string {
	return "forget"
}

func (c *ForgetCommand) Description() string {
	return "Forget one memory by id, or all of them"
}

func (c *ForgetCommand) Execute(ctx context.Context, chat *core.ChatRef, args []string) (string, error) {
	if len(args) != 1 {
		return c.formatter.Usage("/forget <id|all>"), nil
	}

	if strings.EqualFold(args[0], "all") {
		if err := c.memory.DeleteAll(ctx, chat.UserID); err != nil {
			return "", fmt.Errorf("failed to delete memories: %w", err)
		}
		return c.formatter.Success("All memories deleted."), nil
	}

	err := c.memory.Delete(ctx, chat.UserID, args[0])
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Sprintf("No memory with id `%s`.", args[0]), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete memory: %w", err)
	}
	return c.formatter.Success("Forgotten."), nil
}
