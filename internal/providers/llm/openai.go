package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sandevgo/mindful/internal/core"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1/"
)

// OpenAI speaks the chat completions API. OpenRouter, Ollama and any other
// compatible endpoint reuse it with a different base URL.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func NewOpenRouter(apiKey, model, siteURL string) *OpenAI {
	return NewOpenAI(apiKey, model,
		option.WithBaseURL(openRouterBaseURL),
		option.WithHeader("HTTP-Referer", siteURL),
		option.WithHeader("X-Title", core.AppName),
	)
}

func NewOllama(baseURL, model string) *OpenAI {
	// Ollama ignores the key but the client insists on one.
	return NewOpenAI("ollama", model, option.WithBaseURL(baseURL))
}

func NewCustomOpenAI(baseURL, apiKey, model string) *OpenAI {
	return NewOpenAI(apiKey, model, option.WithBaseURL(baseURL))
}

func (p *OpenAI) Stream(ctx context.Context, system string, history []core.Message) (<-chan core.Chunk, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: p.messages(system, history),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	e := newEmitter(ctx)

	go func() {
		defer e.close()
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if !e.text(chunk.Choices[0].Delta.Content) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			e.fail(err)
		}
	}()

	return e.ch, nil
}

func (p *OpenAI) messages(system string, history []core.Message) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	for _, m := range conversation(history) {
		switch m.Role {
		case core.RoleUser:
			msgs = append(msgs, openai.UserMessage(m.Text()))
		case core.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Text()))
		}
	}
	return msgs
}
