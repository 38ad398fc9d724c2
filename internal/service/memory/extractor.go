package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/internal/providers/llm"
	"github.com/sandevgo/mindful/pkg/log"
)

const extractionSystemPrompt = "You are a knowledge extraction system. Output only valid JSON."

// Categories the extractor may assign. Anything else is stored as general.
var categories = map[string]struct{}{
	"preference":   {},
	"wellbeing":    {},
	"routine":      {},
	"relationship": {},
	"goal":         {},
	"user_fact":    {},
}

type Fact struct {
	Fact     string `json:"fact"`
	Category string `json:"category"`
}

// Extractor distills a conversation window into durable facts with the
// chat model.
type Extractor struct {
	ai core.AIProvider
}

func NewExtractor(ai core.AIProvider) *Extractor {
	return &Extractor{ai: ai}
}

func (e *Extractor) Extract(ctx context.Context, window []core.Message) ([]Fact, error) {
	conversation := formatConversation(window)
	if conversation == "" {
		return nil, nil
	}

	log.FromCtx(ctx).Debug().Int("count", len(window)).Msg("extracting facts from window")

	resp, err := llm.Collect(ctx, e.ai, extractionSystemPrompt, []core.Message{
		{Role: core.RoleUser, Content: buildExtractionPrompt(conversation)},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	facts, err := parseExtractionResponse(resp)
	if err != nil {
		return nil, err
	}

	out := facts[:0]
	for _, f := range facts {
		f.Fact = strings.TrimSpace(f.Fact)
		if f.Fact == "" {
			continue
		}
		f.Category = strings.ToLower(strings.TrimSpace(f.Category))
		if _, ok := categories[f.Category]; !ok {
			f.Category = "general"
		}
		out = append(out, f)
	}
	return out, nil
}

func formatConversation(msgs []core.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.Role != core.RoleUser && m.Role != core.RoleAssistant {
			continue
		}
		text := strings.TrimSpace(m.Text())
		if text == "" {
			continue
		}
		b.WriteString(strings.ToUpper(string(m.Role)))
		b.WriteString(": ")
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

func buildExtractionPrompt(conversation string) string {
	return fmt.Sprintf(
		`Extract distinct, lasting facts about the user from the conversation. Output format: JSON list of objects {fact, category}. Categories: [preference, wellbeing, routine, relationship, goal, user_fact]. Rules: 1. Ignore greetings, small talk and anything the assistant said about itself. 2. Facts must be self-contained and start with "User" (replace "I" and "he" with "User"). 3. Prefer a few durable facts over many transient ones; output [] when nothing is worth keeping. Conversation: %s`,
		conversation,
	)
}

func parseExtractionResponse(content string) ([]Fact, error) {
	jsonStr := extractJSONArray(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var facts []Fact
	if err := json.Unmarshal([]byte(jsonStr), &facts); err != nil {
		return nil, fmt.Errorf("unmarshal facts: %w", err)
	}
	return facts, nil
}

func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content[start:], "]")
	if end == -1 {
		return ""
	}
	return content[start : start+end+1]
}
