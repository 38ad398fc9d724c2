package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
)

// chunkBuffer sizes the channel between the SDK reader and the consumer.
const chunkBuffer = 16

// emitter wraps the producer side of a chunk stream.
type emitter struct {
	ctx context.Context
	ch  chan core.Chunk
}

func newEmitter(ctx context.Context) *emitter {
	return &emitter{ctx: ctx, ch: make(chan core.Chunk, chunkBuffer)}
}

// text delivers a piece of output. It reports false when the consumer is
// gone and the producer should stop reading.
func (e *emitter) text(s string) bool {
	if s == "" {
		return true
	}
	select {
	case e.ch <- core.Chunk{Text: s}:
		return true
	case <-e.ctx.Done():
		return false
	}
}

func (e *emitter) fail(err error) {
	select {
	case e.ch <- core.Chunk{Err: err}:
	case <-e.ctx.Done():
	}
}

func (e *emitter) close() {
	close(e.ch)
}

// Collect drains a streamed completion into a single string.
func Collect(ctx context.Context, p core.AIProvider, system string, history []core.Message) (string, error) {
	ch, err := p.Stream(ctx, system, history)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			return sb.String(), chunk.Err
		}
		sb.WriteString(chunk.Text)
	}
	if err := ctx.Err(); err != nil {
		return sb.String(), err
	}
	return sb.String(), nil
}

// conversation keeps only the turns a chat model understands, flattened to
// plain text, and drops empty ones.
func conversation(history []core.Message) []core.Message {
	out := make([]core.Message, 0, len(history))
	for _, m := range history {
		if m.Role != core.RoleUser && m.Role != core.RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Text()) == "" {
			continue
		}
		out = append(out, m.ToLegacy())
	}
	return out
}
