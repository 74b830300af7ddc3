package analysis

import "github.com/hpungsan/voc/internal/taxonomy"

// Phrase length bounds, in ideographs.
const (
	minPhrase = 3
	maxPhrase = 5
)

// Context window offsets around a keyword match, tried in this order.
var (
	leadOffsets  = []int{2, 1, 0}
	trailOffsets = []int{0, 1, 2}
)

// ExtractCoreIssue derives a short phrase describing the complaint, anchored
// on the first of the category's keywords (shortest first) that yields one.
// Falls back to the category's fixed phrase.
func (e *Engine) ExtractCoreIssue(comment, category string) string {
	if category == taxonomy.InvalidLabel {
		return taxonomy.InvalidLabel
	}

	text := fold(comment)
	original := []rune(comment)

	for _, keyword := range e.byLength[category] {
		idx := runeIndex(text, keyword)
		if idx < 0 {
			continue
		}
		if phrase, ok := phraseAround(original, idx, []rune(keyword)); ok {
			return phrase
		}
	}

	if c, ok := e.tax.Category(category); ok && c.Fallback != "" {
		return c.Fallback
	}
	return taxonomy.DefaultFallback
}

// phraseAround tries the context windows around a match at idx, then the
// keyword itself.
func phraseAround(original []rune, idx int, keyword []rune) (string, bool) {
	end := idx + len(keyword)

	for _, lead := range leadOffsets {
		for _, trail := range trailOffsets {
			window := clip(original, idx-lead, end+trail)
			if n := CountIdeographs(window); n >= minPhrase && n <= maxPhrase {
				return string(Ideographs(window)[:min(n, maxPhrase)]), true
			}
		}
	}

	core := Ideographs(keyword)
	switch {
	case len(core) >= minPhrase && len(core) <= maxPhrase:
		return string(core), true
	case len(core) == 2:
		if idx > 0 && end < len(original) {
			extended := Ideographs(clip(original, idx-1, end+1))
			if len(extended) >= minPhrase && len(extended) <= maxPhrase {
				return string(extended), true
			}
		}
	case len(core) > maxPhrase:
		return string(core[:maxPhrase]), true
	}
	return "", false
}

// clip returns rs[start:end] with both bounds clamped to the slice.
func clip(rs []rune, start, end int) []rune {
	start = max(start, 0)
	end = min(end, len(rs))
	if start >= end {
		return nil
	}
	return rs[start:end]
}
