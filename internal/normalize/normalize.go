// Package normalize canonicalizes transaction text. It is the single source
// of truth for both rule matching and cache-key derivation; the two must use
// byte-identical normalization or cache correctness breaks.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Runs of two or more digits are account/reference numbers; single digits are
// kept so tokens like "7-eleven" survive.
var digitRun = regexp.MustCompile(`[0-9]{2,}`)

// Normalize returns the canonical form of s: lower-cased, digit runs replaced
// by a space, punctuation replaced by a space, whitespace collapsed, trimmed.
// Total over all inputs; the empty string normalizes to itself. Idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = digitRun.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Text builds the matchable text for a transaction from its merchant name and
// description, in that order, tolerating either being empty.
func Text(merchant, description string) string {
	return Normalize(merchant + " " + description)
}

// CacheKey derives the memoization key for an AI verdict from a transaction's
// currency and text fields.
func CacheKey(currency, merchant, description string) string {
	return currency + "|" + Text(merchant, description)
}
