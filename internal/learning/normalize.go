// Package learning turns rated replies into reusable query patterns and promotable insights.
package learning

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minPatternLength = 10
	maxPatternLength = 200
)

var (
	leadingFiller  = regexp.MustCompile(`^(?:hi|hello|hey|please|can you|could you|i want to|i need to|help me)\b[[:punct:]]*\s+`)
	trailingFiller = regexp.MustCompile(`(?:[\s,]+(?:please|thanks|thank you)[!.]*|\s*\.)$`)
)

// NormalizePattern reduces a user message to a reusable query pattern. It reports false when the
// stripped message is shorter than 10 or longer than 200 characters.
func NormalizePattern(message string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(message))
	s = stripRepeated(leadingFiller, s)
	s = stripRepeated(trailingFiller, s)
	s = strings.TrimSpace(s)

	n := utf8.RuneCountInString(s)
	if n < minPatternLength || n > maxPatternLength {
		return "", false
	}
	return s, true
}

func stripRepeated(re *regexp.Regexp, s string) string {
	for {
		next := re.ReplaceAllString(s, "")
		if next == s {
			return s
		}
		s = next
	}
}
