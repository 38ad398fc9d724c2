package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/sandevgo/mindful/internal/transport/cli"
	"github.com/sandevgo/mindful/pkg/srv"
	"github.com/spf13/cobra"
)

const chatShutdownTimeout = 5 * time.Second

var (
	chatUser    string
	chatPersona string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Mindful in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		persona := chatPersona
		if persona == "" {
			persona = a.demoPersona()
		}

		rl, err := cli.NewReadLine(a.chat, a.router, a.appCfg, chatUser, persona)
		if err != nil {
			return err
		}

		srv.StartServices(ctx, a.services)
		defer func() {
			stop()
			srv.ShutdownServices(ctx, append(a.services, rl), chatShutdownTimeout)
		}()

		return rl.Start(ctx)
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", os.Getenv("USER"), "identity used for memories")
	chatCmd.Flags().StringVarP(&chatPersona, "persona", "p", "", "demo calendar persona (e.g. alex, sam)")
	rootCmd.AddCommand(chatCmd)
}
