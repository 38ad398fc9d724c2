package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
)

// Echo is an offline provider for demos and tests. It reflects the latest
// user message back word by word.
type Echo struct{}

func NewEcho() *Echo {
	return &Echo{}
}

func (p *Echo) Stream(ctx context.Context, system string, history []core.Message) (<-chan core.Chunk, error) {
	text, ok := core.LastUserText(history)
	reply := "I'm here with you. What's on your mind?"
	if ok {
		reply = "You said: " + text
	}

	e := newEmitter(ctx)
	go func() {
		defer e.close()
		words := strings.SplitAfter(reply, " ")
		for _, w := range words {
			if !e.text(w) {
				return
			}
		}
	}()
	return e.ch, nil
}
