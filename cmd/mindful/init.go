package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/mindful/internal/config"
	"github.com/sandevgo/mindful/pkg/env"
	"github.com/sandevgo/mindful/pkg/log"
	"github.com/spf13/cobra"
)

var initOpts struct {
	force bool

	provider config.ProviderConfig
	apiKey   string
	memory   config.MemoryConfig
	calendar config.CalendarConfig
	http     config.HTTPConfig
	siteURL  string
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the runtime .env file",
	Long:  `Creates the runtime directory and writes a .env file from the given flags. Unset flags keep their defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		setProviderKey(&initOpts.provider, initOpts.apiKey)
		appCfg := config.AppConfig{SiteURL: initOpts.siteURL}

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")
		if err := writeEnvFile(envPath, initOpts.force, &appCfg, &initOpts.provider, &initOpts.memory, &initOpts.calendar, &initOpts.http); err != nil {
			return err
		}

		logger.Info().Str("path", envPath).Msg("configuration saved")
		logger.Info().Msg("run 'mindful start' to serve the API or 'mindful chat' to talk in the terminal")
		return nil
	},
}

// setProviderKey stores key in the field the selected provider reads.
func setProviderKey(cfg *config.ProviderConfig, key string) {
	if key == "" {
		return
	}
	switch cfg.Provider {
	case "anthropic":
		cfg.AnthropicAPIKey = key
	case "gemini":
		cfg.GeminiAPIKey = key
	case "openrouter":
		cfg.OpenRouterAPIKey = key
	case "custom":
		cfg.CustomOpenAIAPIKey = key
	default:
		cfg.OpenAIAPIKey = key
	}
}

func writeEnvFile(path string, force bool, configs ...any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf(".env file already exists at %s (use --force to overwrite)", path)
	}

	content, err := env.MarshalEnv(configs...)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}

func init() {
	f := initCmd.Flags()
	f.BoolVar(&initOpts.force, "force", false, "overwrite an existing .env")

	f.StringVar(&initOpts.provider.Provider, "provider", "", "llm provider: openai, anthropic, gemini, openrouter, ollama, custom, echo")
	f.StringVar(&initOpts.provider.Model, "model", "", "model id")
	f.StringVar(&initOpts.apiKey, "api-key", "", "api key for the selected provider")
	f.StringVar(&initOpts.provider.OllamaBaseURL, "ollama-url", "", "ollama OpenAI-compatible base url")
	f.StringVar(&initOpts.provider.CustomOpenAIBaseURL, "custom-url", "", "base url of a custom OpenAI-compatible server")

	f.StringVar(&initOpts.memory.Backend, "memory", "", "memory backend: local or mem0")
	f.StringVar(&initOpts.memory.Mem0APIKey, "mem0-key", "", "mem0 api key")
	f.StringVar(&initOpts.memory.Mem0BaseURL, "mem0-url", "", "mem0 base url")

	f.StringVar(&initOpts.calendar.Backend, "calendar", "", "calendar backend: google or fixture")
	f.StringVar(&initOpts.calendar.DefaultPersona, "persona", "", "default fixture persona")
	f.StringVar(&initOpts.calendar.ClientID, "google-client-id", "", "Google OAuth client id")
	f.StringVar(&initOpts.calendar.ClientSecret, "google-client-secret", "", "Google OAuth client secret")

	f.StringVar(&initOpts.http.Addr, "addr", "", "http listen address")
	f.StringVar(&initOpts.siteURL, "site-url", "", "public url of the web front-end")

	rootCmd.AddCommand(initCmd)
}
