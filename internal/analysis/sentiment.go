package analysis

import "github.com/hpungsan/voc/internal/taxonomy"

// ScoreSentiment returns the sentiment label for a comment.
//
// Every level with at least one keyword hit is collected. If any matched
// level is negative (at or below the taxonomy's negative threshold) the
// lowest one wins; otherwise the highest matched level wins. No hits yields
// the neutral level. Invalid comments get taxonomy.NotApplicable.
func (e *Engine) ScoreSentiment(comment string) string {
	if IsInvalid(comment) {
		return taxonomy.NotApplicable
	}

	text := fold(comment)
	matched := false
	lowest, highest := 0, 0
	for _, l := range e.tax.Sentiments {
		if !containsAny(text, l.Keywords) {
			continue
		}
		if !matched || l.Score < lowest {
			lowest = l.Score
		}
		if !matched || l.Score > highest {
			highest = l.Score
		}
		matched = true
	}

	score := e.tax.NeutralScore
	switch {
	case !matched:
	case lowest <= e.tax.NegativeThreshold:
		score = lowest
	default:
		score = highest
	}

	level, _ := e.tax.SentimentLevel(score)
	return level.Label
}
