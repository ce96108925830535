package pipeline

import (
	"strings"
	"unicode"
)

// NormalizeKey derives the canonical identity key used to decide that
// two observations from different feeds are the same track. Purely a
// matching key: display fields keep their original form.
func NormalizeKey(title, artist string) string {
	return normalizePart(title) + "__" + normalizePart(artist)
}

// normalizePart converts a string to canonical form: lowercase, drop
// parenthesized/bracketed qualifiers ("(Remix)", "[Live]"), collapse
// any run of non-alphanumeric characters to a single space, trim.
func normalizePart(s string) string {
	s = strings.ToLower(s)
	s = stripEnclosed(s, '(', ')')
	s = stripEnclosed(s, '[', ']')

	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		// treat everything else as space separator
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// stripEnclosed removes every shortest open..close span including the
// delimiters. An unmatched delimiter is left in place; the collapse
// step above turns it into a space.
func stripEnclosed(s string, open, close byte) string {
	for {
		i := strings.IndexByte(s, open)
		if i < 0 {
			return s
		}
		j := strings.IndexByte(s[i:], close)
		if j < 0 {
			return s
		}
		s = s[:i] + s[i+j+1:]
	}
}
