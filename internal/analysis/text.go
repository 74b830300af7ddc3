package analysis

import (
	"strings"
	"unicode"
)

// IsIdeograph reports whether r lies in the CJK Unified Ideographs block.
func IsIdeograph(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// CountIdeographs returns the number of CJK ideographs in rs.
func CountIdeographs(rs []rune) int {
	n := 0
	for _, r := range rs {
		if IsIdeograph(r) {
			n++
		}
	}
	return n
}

// Ideographs returns only the CJK ideographs of rs, in order.
func Ideographs(rs []rune) []rune {
	out := make([]rune, 0, len(rs))
	for _, r := range rs {
		if IsIdeograph(r) {
			out = append(out, r)
		}
	}
	return out
}

// fold is the normalized form every keyword scan runs against.
func fold(s string) string {
	return strings.ToLower(s)
}

// countHits returns how many keywords occur in text.
func countHits(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// containsAny reports whether any keyword occurs in text.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// isSymbolOnly reports whether s holds only digits, whitespace and
// non-word punctuation: no letters, no underscore.
func isSymbolOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			return false
		}
	}
	return true
}

// runeIndex returns the rune offset of the first occurrence of sub in s, or -1.
func runeIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return len([]rune(s[:i]))
}

// excerpt returns the first n runes of s.
func excerpt(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
