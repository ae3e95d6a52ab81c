package metrics

import (
	"strings"
	"unicode/utf8"
)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes byte, rune, word, and line counts for the input.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// ClampRunes truncates s to at most n runes and reports whether truncation
// occurred. Tool wrappers use this to keep lookup results predictably small.
func ClampRunes(s string, n int) (string, bool) {
	if n <= 0 {
		return "", len(s) > 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
