package command

import (
	"fmt"
	"strings"

	"github.com/sandevgo/mindful/internal/core"
)

// ResponseFormatter renders command replies as Markdown shared by the
// terminal and Telegram transports.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("🌿 **%s**\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ %s\n", message)
}

func (f *ResponseFormatter) Error(err error) string {
	return fmt.Sprintf("❌ **Something went wrong**\n\n%s\n", err.Error())
}

func (f *ResponseFormatter) Usage(command string) string {
	return fmt.Sprintf("**Usage**: `%s`\n", command)
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("› ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Memories lists facts with their ids so they can be passed to /forget.
func (f *ResponseFormatter) Memories(memories []core.Memory) string {
	items := make([]string, len(memories))
	for i, m := range memories {
		items[i] = fmt.Sprintf("%s `%s`", m.Text, m.ID)
	}
	return f.List(items)
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("_%s_\n", text)
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}
