package ops

import (
	"github.com/hpungsan/voc/internal/analysis"
	"github.com/hpungsan/voc/internal/taxonomy"
)

// TaxonomyOutput describes the keyword tables an engine runs with.
type TaxonomyOutput struct {
	InvalidLabel      string `json:"invalid_label" yaml:"invalid_label"`
	NotApplicable     string `json:"not_applicable" yaml:"not_applicable"`
	taxonomy.Taxonomy `yaml:",inline"`
}

// DescribeTaxonomy returns the engine's active taxonomy.
func DescribeTaxonomy(engine *analysis.Engine) *TaxonomyOutput {
	return &TaxonomyOutput{
		InvalidLabel:  taxonomy.InvalidLabel,
		NotApplicable: taxonomy.NotApplicable,
		Taxonomy:      *engine.Taxonomy(),
	}
}
