package ops

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/voc/internal/analysis"
	"github.com/hpungsan/voc/internal/config"
	"github.com/hpungsan/voc/internal/errors"
	"github.com/hpungsan/voc/internal/report"
)

// AnalyzeInput contains parameters for the Analyze operation.
// Exactly one of Text and Comments must be set.
type AnalyzeInput struct {
	Text     string   // pasted text, one comment per line
	Comments []string // pre-split comments
	Workers  int      // overrides cfg.Workers when > 0
}

// AnalyzeOutput contains the result of the Analyze operation.
type AnalyzeOutput struct {
	RunID      string                       `json:"run_id" yaml:"run_id"`
	Total      int                          `json:"total" yaml:"total"`
	Invalid    int                          `json:"invalid" yaml:"invalid"`
	Categories []analysis.CategoryAggregate `json:"categories" yaml:"categories"`
	Records    []analysis.Record            `json:"records" yaml:"records"`
	Report     string                       `json:"report" yaml:"report"`
}

// Analyze runs the full pipeline over a batch and renders the report.
// Every run works on its own record slice; nothing is shared between runs.
func Analyze(ctx context.Context, engine *analysis.Engine, cfg *config.Config, input AnalyzeInput) (*AnalyzeOutput, error) {
	if input.Text != "" && len(input.Comments) > 0 {
		return nil, errors.NewInvalidRequest("cannot specify both text and comments")
	}

	comments := cleanComments(input.Comments)
	if input.Text != "" {
		comments = SplitComments(input.Text)
	}
	if err := checkBatch(cfg, comments); err != nil {
		return nil, err
	}

	workers := input.Workers
	if workers <= 0 {
		workers = cfg.Workers
	}

	records, err := analyzeBatch(ctx, engine, comments, workers)
	if err != nil {
		return nil, err
	}

	invalid := 0
	for _, r := range records {
		if r.Invalid() {
			invalid++
		}
	}

	categories := engine.Aggregate(records)
	return &AnalyzeOutput{
		RunID:      newRunID(),
		Total:      len(records),
		Invalid:    invalid,
		Categories: categories,
		Records:    records,
		Report:     report.Render(categories, records),
	}, nil
}

// analyzeBatch analyzes comments sequentially, or fans them out over a
// bounded errgroup. Each worker writes only its own slot, so the result is
// identical to the sequential scan.
func analyzeBatch(ctx context.Context, engine *analysis.Engine, comments []string, workers int) ([]analysis.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 1 || len(comments) < 2 {
		return engine.Analyze(comments), nil
	}

	records := make([]analysis.Record, len(comments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, comment := range comments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = engine.AnalyzeComment(i+1, comment)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
