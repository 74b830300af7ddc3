package ops

import (
	"strings"

	"github.com/hpungsan/voc/internal/analysis"
	"github.com/hpungsan/voc/internal/config"
	"github.com/hpungsan/voc/internal/errors"
)

// ClassifyInput contains parameters for the Classify operation.
type ClassifyInput struct {
	Comment string
}

// ClassifyOutput contains the analysis of a single comment.
type ClassifyOutput struct {
	analysis.Record `yaml:",inline"`
	Invalid         bool `json:"invalid" yaml:"invalid"`
}

// Classify analyzes one comment on its own. The record ID is always 1.
func Classify(engine *analysis.Engine, cfg *config.Config, input ClassifyInput) (*ClassifyOutput, error) {
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, errors.NewInvalidRequest("comment is required")
	}
	if err := checkBatch(cfg, []string{comment}); err != nil {
		return nil, err
	}

	record := engine.AnalyzeComment(1, comment)
	return &ClassifyOutput{Record: record, Invalid: record.Invalid()}, nil
}
