// Package analysis implements the rule-based comment triage pipeline:
// validity filtering, categorization, sentiment scoring, urgency tiers,
// core issue extraction and per-category aggregation.
package analysis

import (
	"slices"
	"unicode/utf8"

	"github.com/hpungsan/voc/internal/taxonomy"
)

// SummaryRunes is the length of the original-text excerpt kept per record.
const SummaryRunes = 10

// Record is the analysis result for one comment.
type Record struct {
	ID        int    `json:"id" yaml:"id"`
	Category  string `json:"category" yaml:"category"`
	Sentiment string `json:"sentiment" yaml:"sentiment"`
	Urgency   string `json:"urgency" yaml:"urgency"`
	CoreIssue string `json:"core_issue" yaml:"core_issue"`
	Summary   string `json:"summary" yaml:"summary"`
	Original  string `json:"original" yaml:"original"`
}

// Invalid reports whether the record belongs to the invalid pseudo-category.
func (r Record) Invalid() bool {
	return r.Category == taxonomy.InvalidLabel
}

// Engine runs the pipeline against one immutable taxonomy.
// It keeps no per-run state, so a single Engine may serve concurrent runs.
type Engine struct {
	tax *taxonomy.Taxonomy

	// byLength holds each category's keywords sorted by rune length,
	// shortest first, preserving declaration order among equals.
	byLength map[string][]string
}

// New creates an Engine for the given taxonomy.
func New(tax *taxonomy.Taxonomy) *Engine {
	e := &Engine{
		tax:      tax,
		byLength: make(map[string][]string, len(tax.Categories)),
	}
	for _, c := range tax.Categories {
		sorted := slices.Clone(c.Keywords)
		slices.SortStableFunc(sorted, func(a, b string) int {
			return utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
		})
		e.byLength[c.Label] = sorted
	}
	return e
}

// Taxonomy returns the keyword tables the engine runs against.
func (e *Engine) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// AnalyzeComment runs the full per-comment pipeline.
func (e *Engine) AnalyzeComment(id int, comment string) Record {
	category := e.Classify(comment)
	return Record{
		ID:        id,
		Category:  category,
		Sentiment: e.ScoreSentiment(comment),
		Urgency:   e.DetermineUrgency(comment, category),
		CoreIssue: e.ExtractCoreIssue(comment, category),
		Summary:   excerpt(comment, SummaryRunes),
		Original:  comment,
	}
}

// Analyze produces one record per comment, in input order, with ids 1..N.
func (e *Engine) Analyze(comments []string) []Record {
	records := make([]Record, len(comments))
	for i, c := range comments {
		records[i] = e.AnalyzeComment(i+1, c)
	}
	return records
}
