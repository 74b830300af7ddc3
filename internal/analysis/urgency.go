package analysis

import "github.com/hpungsan/voc/internal/taxonomy"

// DetermineUrgency returns the urgency label for a categorized comment.
// Tiers are checked from most to least severe and the first hit wins;
// no hit defaults to the least severe tier.
func (e *Engine) DetermineUrgency(comment, category string) string {
	if category == taxonomy.InvalidLabel {
		return taxonomy.NotApplicable
	}

	text := fold(comment)
	for _, u := range e.tax.Urgencies {
		if containsAny(text, u.Keywords) {
			return u.Label
		}
	}
	return e.tax.LeastUrgent().Label
}
