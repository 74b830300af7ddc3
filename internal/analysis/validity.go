package analysis

import (
	"strings"
	"unicode/utf8"
)

// IsInvalid reports whether a comment carries no analyzable signal:
// too short, mostly non-ideograph noise, or only digits and symbols.
func IsInvalid(comment string) bool {
	comment = strings.TrimSpace(comment)
	length := utf8.RuneCountInString(comment)

	if length < 2 {
		return true
	}

	nonIdeographs := length - CountIdeographs([]rune(comment))
	if length > 10 && float64(nonIdeographs)/float64(length) > 0.7 {
		return true
	}

	return isSymbolOnly(comment)
}
