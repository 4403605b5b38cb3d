// Package textmatch provides string similarity scoring for OCR deduplication.
package textmatch

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns a similarity score between a and b in [0.0, 1.0] using the
// SequenceMatcher measure (2*M/T over matching characters). It compares the
// strings rune by rune, so multi-byte characters count as single elements.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	m := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	return m.Ratio()
}

// AnySimilar reports whether text scores at or above threshold against any
// element of seen.
func AnySimilar(text string, seen []string, threshold float64) bool {
	for _, s := range seen {
		if Ratio(text, s) >= threshold {
			return true
		}
	}
	return false
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
