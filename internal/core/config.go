package core

type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetGeminiAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaBaseURL() string
	GetCustomOpenAIBaseURL() string
	GetCustomOpenAIAPIKey() string
}

// TelegramConfig is read by the Telegram transport.
type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
