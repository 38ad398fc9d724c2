package core

import "strings"

// Text returns the plain text of the message regardless of its form.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type != PartText {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

func (m Message) IsStructured() bool {
	return len(m.Parts) > 0
}

// ToStructured converts a legacy message into a single text part.
// Structured messages are returned unchanged.
func (m Message) ToStructured() Message {
	if m.IsStructured() {
		return m
	}
	out := m
	out.Parts = []Part{{Type: PartText, Text: m.Content}}
	out.Content = ""
	return out
}

// ToLegacy flattens the text parts into Content and drops the parts.
func (m Message) ToLegacy() Message {
	out := m
	out.Content = m.Text()
	out.Parts = nil
	return out
}

// LastUserText returns the text of the latest user message, if any.
func LastUserText(msgs []Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			if text := strings.TrimSpace(msgs[i].Text()); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// Tail returns at most the last n messages. The result shares no backing
// array with msgs.
func Tail(msgs []Message, n int) []Message {
	if n <= 0 {
		return nil
	}
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
