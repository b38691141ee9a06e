// Package normalize cleans up generated post text before it is measured or published.
package normalize

import (
	"regexp"
	"strings"
)

const punctuation = ",.;:!?"

var (
	multiSpaceRegex        = regexp.MustCompile(`  +`)
	spaceBeforePunctRegex  = regexp.MustCompile(` ([,.;:!?])`)
	repeatedPunctRegex     = regexp.MustCompile(`([,.;:!?])[,.;:!?]+`)
	surroundingQuoteCutset = `'"`
)

// Text runs the cleanup pipeline until the output stops changing, so
// Text(Text(s)) == Text(s) for every s.
func Text(s string) string {
	for {
		next := pass(s)
		if next == s {
			return next
		}
		s = next
	}
}

// pass applies every cleanup step once, in order.
func pass(s string) string {
	s = keepASCII(s)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, surroundingQuoteCutset)
	s = strings.TrimSpace(s)
	// Consecutive spaces usually mark a dropped sentence boundary.
	s = multiSpaceRegex.ReplaceAllString(s, ". ")
	s = spaceBeforePunctRegex.ReplaceAllString(s, "$1")
	s = repeatedPunctRegex.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}

// keepASCII drops everything outside printable ASCII except ASCII whitespace.
func keepASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 0x20 && c <= 0x7e:
			b.WriteByte(c)
		case c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r':
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsPunctuation reports whether r is one of the marks the pipeline collapses.
func IsPunctuation(r rune) bool {
	return strings.ContainsRune(punctuation, r)
}
