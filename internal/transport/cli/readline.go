package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/service/chat"
	"github.com/sandevgo/mindful/internal/service/ui"
	"github.com/sandevgo/mindful/pkg/log"
)

const defaultUserID = "local"

type ReadLine struct {
	chat   *chat.Service
	router core.CmdRouter
	meta   core.SessionMeta
	ref    *core.ChatRef
	rl     *readline.Instance
}

// NewReadLine opens an interactive chat on the terminal. A non-empty persona
// gives the conversation access to that demo calendar.
func NewReadLine(chatSvc *chat.Service, router core.CmdRouter, cfg *config.AppConfig, userID, persona string) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.UserPrompt(),
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	userID = core.NormalizeUserID(userID)
	if userID == "" {
		userID = defaultUserID
	}
	meta := core.SessionMeta{User: core.User{ID: userID}}
	if persona != "" {
		meta.Persona = persona
		meta.CalendarPermission = true
	}

	return &ReadLine{
		chat:   chatSvc,
		router: router,
		meta:   meta,
		ref:    &core.ChatRef{UserID: userID, SessionID: "cli-" + userID},
		rl:     rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	out := r.rl.Stdout()
	fmt.Fprintf(out, "%s is listening. Type /help for commands or 'exit' to quit.\n", core.AppName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if result, ok := r.router.Execute(ctx, r.ref, line); ok {
			fmt.Fprintln(out, result)
			continue
		}

		fmt.Fprint(out, ui.ReplyPrompt())
		if _, err := r.chat.Reply(ctx, r.ref.SessionID, r.meta, line, out, nil); err != nil {
			logger.Error().Err(err).Msg("chat turn failed")
			fmt.Fprintf(out, "Error: %v", err)
		}
		fmt.Fprintln(out)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
