package assembler

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures text in model tokens.
type TokenCounter func(text string) int

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

// CountTokens uses the cl100k_base encoding. When the encoding cannot be
// loaded (it is fetched on first use) words are counted instead.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tk = enc
		}
	})
	if tk == nil {
		return CountWords(text)
	}
	return len(tk.Encode(text, nil, nil))
}

func CountWords(text string) int {
	return len(strings.Fields(text))
}
