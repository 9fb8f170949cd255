package helper

import (
	"strings"
	"unicode"
)

const DefaultSlugMaxLen = 160

// GenerateSlug normalizes s into a slug:
// - lower-case
// - letters, digits and "_" are kept; every other run becomes a single "-"
// - "-" trimmed from both ends
func GenerateSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return cutToLen(strings.Trim(b.String(), "-"), DefaultSlugMaxLen)
}

// cutToLen trims s to at most n bytes, then trims "-".
func cutToLen(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return strings.Trim(s, "-")
	}
	return strings.Trim(s[:n], "-")
}
