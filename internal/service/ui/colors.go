package ui

import "github.com/charmbracelet/lipgloss"

// Basic ANSI colors so the palette follows the terminal theme.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// Chat prompts.
	UserPromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	ReplyPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

func UserPrompt() string  { return UserPromptStyle.Render("you ›") + " " }
func ReplyPrompt() string { return ReplyPromptStyle.Render("mindful ›") + " " }
