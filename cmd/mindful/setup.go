package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/providers/calendar"
	"github.com/sandevgo/mindful/internal/providers/llm"
	mem0 "github.com/sandevgo/mindful/internal/providers/memory"
	"github.com/sandevgo/mindful/internal/service/assembler"
	"github.com/sandevgo/mindful/internal/service/chat"
	"github.com/sandevgo/mindful/internal/service/command"
	"github.com/sandevgo/mindful/internal/service/memory"
	"github.com/sandevgo/mindful/internal/storage/sqlite"
	"github.com/sandevgo/mindful/pkg/log"
	"github.com/sandevgo/mindful/pkg/srv"
)

// app holds the wired components shared by every command.
type app struct {
	appCfg      *config.AppConfig
	memoryCfg   *config.MemoryConfig
	calendarCfg *config.CalendarConfig

	memory    core.MemoryStore
	calendars core.CalendarProvider
	chat      *chat.Service
	router    core.CmdRouter

	// services always run: the extraction worker and cleanup hooks.
	services []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	a := &app{
		appCfg:      config.NewAppConfig(ctx),
		memoryCfg:   config.NewMemoryConfig(ctx),
		calendarCfg: config.NewCalendarConfig(ctx),
	}
	providerCfg := config.NewProviderConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, a.appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	a.services = append(a.services, srv.NewCleanup(db.Close))
	sessions := sqlite.NewSessionsRepo(db)
	messages := sqlite.NewMessagesRepo(db)

	// 3. AI Provider
	ai, err := llm.NewProvider(ctx, providerCfg, a.appCfg.SiteURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Memory
	a.memory = initMemory(ctx, a.memoryCfg, db, ai)
	queue := chat.NewExtractionQueue(a.memory, a.memoryCfg.ExtractionQueueLen)
	a.services = append(a.services, queue)

	// 5. Calendar
	fixtures, err := calendar.LoadFixtures()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load calendar fixtures")
	}
	a.calendars = calendar.NewProvider(a.calendarCfg, fixtures)

	// 6. Chat
	asm := assembler.New(a.memory, a.calendars, assembler.Options{
		MemoryLimit:  a.memoryCfg.SearchLimit,
		MemoryBudget: a.memoryCfg.TokenBudget,
	})
	a.chat = chat.NewService(
		asm,
		chat.NewStreamer(ai),
		chat.NewRecorder(sessions, messages, queue),
		sessions,
		messages,
		a.appCfg.GetContextWindowSize(),
	)
	a.router = command.New(command.NewCommands(a.memory))

	return a
}

func initMemory(ctx context.Context, cfg *config.MemoryConfig, db *sql.DB, ai core.AIProvider) core.MemoryStore {
	logger := log.FromCtx(ctx)
	switch cfg.Backend {
	case config.MemoryBackendMem0:
		logger.Info().Str("url", cfg.Mem0BaseURL).Msg("using mem0 memory store")
		return mem0.NewMem0(cfg.Mem0BaseURL, cfg.Mem0APIKey)
	case config.MemoryBackendLocal, "":
		return memory.NewLocalStore(sqlite.NewKnowledgeRepo(db), memory.NewExtractor(ai))
	default:
		logger.Fatal().Str("backend", cfg.Backend).Msg("unknown memory backend")
		return nil
	}
}

// demoPersona is the fixture calendar terminal and Telegram chats use. It is
// empty unless the fixture backend is configured.
func (a *app) demoPersona() string {
	if a.calendarCfg.Backend == config.CalendarBackendFixture {
		return a.calendarCfg.DefaultPersona
	}
	return ""
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
