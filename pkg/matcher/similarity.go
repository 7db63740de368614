package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the Ratcliff/Obershelp ratio 2*M/T of two strings, where M
// is the number of runes in matching blocks and T the total rune count.
// Comparison is case-sensitive. The result lies in [0, 1].
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// tokenize lowercases s, splits it on whitespace and keeps the distinct tokens
// of at least minLen runes.
func tokenize(s string, minLen int) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(s)) {
		if utf8.RuneCountInString(f) >= minLen {
			tokens[f] = struct{}{}
		}
	}
	return tokens
}

// overlapScore is |candidate ∩ utterance| / |candidate|.
// It reports false when the candidate has no significant tokens.
func overlapScore(candidate, utterance map[string]struct{}) (float64, bool) {
	if len(candidate) == 0 {
		return 0, false
	}
	shared := 0
	for tok := range candidate {
		if _, ok := utterance[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(candidate)), true
}
