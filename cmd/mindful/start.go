package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/mindful/internal/config"
	httpapi "github.com/sandevgo/mindful/internal/transport/http"
	"github.com/sandevgo/mindful/internal/transport/mcp"
	"github.com/sandevgo/mindful/internal/transport/telegram"
	"github.com/sandevgo/mindful/pkg/log"
	"github.com/sandevgo/mindful/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Mindful server",
	Long:  `Starts the HTTP API, the memory extraction worker and, when enabled, the Telegram bot and the MCP endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting mindful")

		a := newApp(ctx)
		httpCfg := config.NewHTTPConfig(ctx)

		services, err := initTransports(ctx, a, httpCfg)
		if err != nil {
			return err
		}
		services = append(a.services, services...)

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services, httpCfg.ShutdownTimeout)
		logger.Info().Msg("mindful has been shut down gracefully")
		return nil
	},
}

func initTransports(ctx context.Context, a *app, httpCfg *config.HTTPConfig) ([]srv.Service, error) {
	var services []srv.Service

	var opts []httpapi.Option
	if a.appCfg.IsMCPSelected() {
		log.FromCtx(ctx).Info().Msg("mounting mcp endpoint at /mcp")
		opts = append(opts, httpapi.WithMCP(mcp.NewHandler(mcp.NewServer(a.memory, a.calendars))))
	}
	services = append(services, httpapi.NewServer(httpCfg, a.appCfg.SiteURL, a.chat, a.memory, a.calendars, opts...))

	// Telegram Bot
	if a.appCfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.chat, a.router, a.demoPersona())
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func init() {
	rootCmd.AddCommand(startCmd)
}
