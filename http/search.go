package http

import (
	"strings"
	"unicode"
)

// maxQueryLength in runes for user search queries.
const maxQueryLength = 100

// SanitizeQuery from the users search box: control characters are dropped,
// runs of whitespace become single spaces, and the result is cut to [maxQueryLength] runes.
func SanitizeQuery(q string) string {
	q = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, q)

	q = strings.Join(strings.Fields(q), " ")

	if runes := []rune(q); len(runes) > maxQueryLength {
		q = strings.TrimSpace(string(runes[:maxQueryLength]))
	}

	return q
}
