package assembler

import "strings"

// Classifier decides whether a message is about the user's schedule.
type Classifier interface {
	IsCalendarRelated(text string) bool
}

// DefaultKeywords trigger a calendar lookup when any of them occurs in the
// message, case-insensitively.
var DefaultKeywords = []string{
	"meeting", "meetings", "calendar", "schedule", "scheduled",
	"appointment", "event", "events",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"today", "tomorrow", "tonight", "this week", "next week", "weekend",
	"busy", "free time", "free", "available", "availability",
	"agenda", "plans", "deadline",
}

// KeywordClassifier is a plain substring matcher.
type KeywordClassifier struct {
	keywords []string
}

func NewKeywordClassifier(keywords ...string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &KeywordClassifier{keywords: lowered}
}

func (c *KeywordClassifier) IsCalendarRelated(text string) bool {
	text = strings.ToLower(text)
	for _, k := range c.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
