package analysis

import (
	"regexp"
	"slices"
	"strconv"

	"github.com/hpungsan/voc/internal/taxonomy"
)

// unknownOrder sorts categories without a numeric prefix last.
const unknownOrder = 999

// scoreInLabel extracts the score from labels like "4分（满意）".
var scoreInLabel = regexp.MustCompile(`(\d+)分`)

// CategoryAggregate summarizes every record of one category.
type CategoryAggregate struct {
	Category       string  `json:"category" yaml:"category"`
	Count          int     `json:"count" yaml:"count"`
	AvgSentiment   float64 `json:"avg_sentiment" yaml:"avg_sentiment"`
	HighestUrgency string  `json:"highest_urgency" yaml:"highest_urgency"`
	TypicalIssue   string  `json:"typical_issue" yaml:"typical_issue"`
}

type group struct {
	label   string
	order   int
	records []Record
	scores  []int
	ranks   []int // parsed urgency rank per record, -1 if unparseable
}

// Aggregate groups records by category, skipping invalid ones, and returns
// one summary per category ordered by category number.
func (e *Engine) Aggregate(records []Record) []CategoryAggregate {
	var groups []*group
	byLabel := make(map[string]*group)

	for _, r := range records {
		if r.Invalid() {
			continue
		}
		g, ok := byLabel[r.Category]
		if !ok {
			g = &group{label: r.Category, order: e.categoryOrder(r.Category)}
			byLabel[r.Category] = g
			groups = append(groups, g)
		}
		g.records = append(g.records, r)
		if score, ok := e.sentimentScore(r.Sentiment); ok {
			g.scores = append(g.scores, score)
		}
		rank, ok := e.tax.UrgencyRank(r.Urgency)
		if !ok {
			rank = -1
		}
		g.ranks = append(g.ranks, rank)
	}

	slices.SortStableFunc(groups, func(a, b *group) int {
		return a.order - b.order
	})

	out := make([]CategoryAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, e.summarize(g))
	}
	return out
}

func (e *Engine) summarize(g *group) CategoryAggregate {
	agg := CategoryAggregate{
		Category: g.label,
		Count:    len(g.records),
	}

	if len(g.scores) > 0 {
		sum := 0
		for _, s := range g.scores {
			sum += s
		}
		agg.AvgSentiment = roundTenth(float64(sum) / float64(len(g.scores)))
	}

	highest := -1
	for _, rank := range g.ranks {
		if rank >= 0 && (highest < 0 || rank < highest) {
			highest = rank
		}
	}
	if highest >= 0 {
		agg.HighestUrgency = e.tax.Urgencies[highest].Label
	} else {
		agg.HighestUrgency = e.tax.LeastUrgent().Label
	}

	agg.TypicalIssue = g.records[0].CoreIssue
	for i, rank := range g.ranks {
		if highest >= 0 && rank == highest {
			agg.TypicalIssue = g.records[i].CoreIssue
			break
		}
	}
	return agg
}

// sentimentScore parses the numeric level of a sentiment label.
func (e *Engine) sentimentScore(label string) (int, bool) {
	if score, ok := e.tax.SentimentScore(label); ok {
		return score, true
	}
	m := scoreInLabel.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return score, true
}

func (e *Engine) categoryOrder(label string) int {
	if c, ok := e.tax.Category(label); ok {
		return c.Number
	}
	if n, ok := taxonomy.LabelNumber(label); ok {
		return n
	}
	return unknownOrder
}

// roundTenth rounds to one decimal the way the decimal formatter does
// (half to even on the exact binary value).
func roundTenth(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
