package memory

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sandevgo/mindful/internal/core"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "am": {}, "as": {}, "at": {}, "be": {}, "but": {},
	"by": {}, "can": {}, "do": {}, "does": {}, "for": {}, "from": {}, "have": {}, "has": {},
	"how": {}, "i": {}, "i'm": {}, "if": {}, "in": {}, "is": {}, "it": {}, "me": {}, "my": {},
	"of": {}, "on": {}, "or": {}, "so": {}, "that": {}, "the": {}, "this": {}, "to": {},
	"user": {}, "was": {}, "we": {}, "what": {}, "when": {}, "with": {}, "you": {}, "your": {},
}

// terms lowercases text, splits it on anything that is not a letter, digit
// or apostrophe, and drops stopwords and single characters.
func terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		f = stem(f)
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// stem folds the commonest English suffixes so "meetings" finds "meeting".
func stem(w string) string {
	w = strings.TrimSuffix(w, "'s")
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		w = w[:len(w)-1]
	}
	return w
}

// rank scores every memory by the share of query terms it contains and
// returns the matching ones, best first, newest first among equals. An
// empty query ranks by recency alone.
func rank(memories []core.Memory, query string, limit int) []core.Memory {
	qt := terms(query)

	scored := make([]core.Memory, 0, len(memories))
	for _, m := range memories {
		if len(qt) == 0 {
			scored = append(scored, m)
			continue
		}
		have := make(map[string]struct{})
		for _, t := range terms(m.Text) {
			have[t] = struct{}{}
		}
		hits := 0
		for _, t := range qt {
			if _, ok := have[t]; ok {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		m.Score = float64(hits) / float64(len(qt))
		scored = append(scored, m)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].CreatedAt.After(scored[j].CreatedAt)
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
