package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses interior whitespace runs to
// a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			b.WriteRune(r)
			lastWasSpace = false
		}
	}
	return b.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeAddress keeps address matching honest: availability filtering
// compares addresses by exact string equality, so both the stored and the
// queried value pass through here.
func NormalizeAddress(address string) string {
	return TrimAndNormalize(address)
}
