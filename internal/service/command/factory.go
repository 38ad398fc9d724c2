package command

import (
	"github.com/sandevgo/mindful/internal/core"
)

func NewCommands(memory core.MemoryStore) []core.Command {
	return []core.Command{
		NewNewSessionCommand(),
		NewMemoriesCommand(memory),
		NewRememberCommand(memory),
		NewForgetCommand(memory),
	}
}
