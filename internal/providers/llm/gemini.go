package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/mindful/internal/core"
	"google.golang.org/genai"
)

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (p *Gemini) Stream(ctx context.Context, system string, history []core.Message) (<-chan core.Chunk, error) {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	contents := p.contents(history)

	e := newEmitter(ctx)
	go func() {
		defer e.close()

		for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, cfg) {
			if err != nil {
				e.fail(err)
				return
			}
			if !e.text(resp.Text()) {
				return
			}
		}
	}()

	return e.ch, nil
}

func (p *Gemini) contents(history []core.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range conversation(history) {
		role := genai.Role(genai.RoleUser)
		if m.Role == core.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text(), role))
	}
	return contents
}
