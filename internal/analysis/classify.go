package analysis

import "github.com/hpungsan/voc/internal/taxonomy"

// Classify assigns a comment to a category label, or taxonomy.InvalidLabel.
// The category with the most keyword hits wins; ties go to the lowest number.
func (e *Engine) Classify(comment string) string {
	if IsInvalid(comment) {
		return taxonomy.InvalidLabel
	}

	text := fold(comment)
	var (
		best      taxonomy.Category
		bestScore int
	)
	for _, c := range e.tax.Categories {
		if c.CatchAll {
			continue
		}
		score := countHits(text, c.Keywords)
		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && c.Number < best.Number) {
			best, bestScore = c, score
		}
	}

	if bestScore == 0 {
		return e.tax.CatchAll().Label
	}
	return best.Label
}
