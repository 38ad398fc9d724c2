package chat

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
)

// Streamer relays a model response to a writer as it is generated.
type Streamer struct {
	ai core.AIProvider
}

func NewStreamer(ai core.AIProvider) *Streamer {
	return &Streamer{ai: ai}
}

// Stream writes every chunk to w, calling flush after each one, and returns
// the full text. On failure the text received so far is returned with the
// error. There is no retry.
func (s *Streamer) Stream(ctx context.Context, system string, history []core.Message, w io.Writer, flush func()) (string, error) {
	chunks, err := s.ai.Stream(ctx, system, history)
	if err != nil {
		return "", fmt.Errorf("start stream: %w", err)
	}

	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return sb.String(), chunk.Err
		}
		if chunk.Text == "" {
			continue
		}
		sb.WriteString(chunk.Text)
		if _, err := io.WriteString(w, chunk.Text); err != nil {
			return sb.String(), fmt.Errorf("write chunk: %w", err)
		}
		if flush != nil {
			flush()
		}
	}

	if err := ctx.Err(); err != nil {
		return sb.String(), err
	}
	return sb.String(), nil
}
