package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sandevgo/mindful/internal/core"
)

const anthropicMaxTokens = 2048

type Anthropic struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *Anthropic {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *Anthropic) Stream(ctx context.Context, system string, history []core.Message) (<-chan core.Chunk, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  p.messages(history),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	e := newEmitter(ctx)

	go func() {
		defer e.close()
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			event := stream.Current()
			ev, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			delta, ok := ev.Delta.AsAny().(anthropic.TextDelta)
			if !ok {
				continue
			}
			if !e.text(delta.Text) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			e.fail(err)
		}
	}()

	return e.ch, nil
}

// messages maps history onto Anthropic turns. The API requires the first
// turn to come from the user, so leading assistant turns are dropped.
func (p *Anthropic) messages(history []core.Message) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(history))
	for _, m := range conversation(history) {
		switch m.Role {
		case core.RoleUser:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text())))
		case core.RoleAssistant:
			if len(msgs) == 0 {
				continue
			}
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text())))
		}
	}
	return msgs
}
