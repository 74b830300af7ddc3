package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// InvalidLabel is the sentinel category (and core issue marker) for comments
// that carry no analyzable signal.
const InvalidLabel = "无效数据"

// NotApplicable is the sentiment and urgency label of invalid comments.
const NotApplicable = "N/A"

// DefaultFallback is the core issue phrase used when a category has no fallback.
const DefaultFallback = "其他问题"

//go:embed default.yaml
var defaultYAML []byte

// builtin is parsed once at process start and never mutated.
var builtin = mustParse(defaultYAML)

// Category is one numbered bucket of the feedback taxonomy.
type Category struct {
	// Number orders categories and breaks classification ties (lowest wins)
	Number int `yaml:"number" json:"number"`

	// Label is the display label, e.g. "1-功能稳定性"
	Label string `yaml:"label" json:"label"`

	// Fallback is the core issue phrase used when no keyword yields a phrase
	Fallback string `yaml:"fallback" json:"fallback"`

	// Keywords are the trigger substrings, lower-cased at load time
	Keywords []string `yaml:"keywords" json:"keywords"`

	// CatchAll marks the category assigned when nothing else matches
	CatchAll bool `yaml:"catch_all" json:"catch_all,omitempty"`
}

// Level is one ordered sentiment level (1 = most negative).
type Level struct {
	Score    int      `yaml:"score" json:"score"`
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Tier is one urgency tier. Tiers are stored most severe first.
type Tier struct {
	Name     string   `yaml:"name" json:"name"`
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Taxonomy holds the keyword tables driving every analysis step.
// A Taxonomy must not be modified once built; analyses share it freely.
type Taxonomy struct {
	// NeutralScore is returned when no sentiment keyword matches
	NeutralScore int `yaml:"neutral_score" json:"neutral_score"`

	// NegativeThreshold is the highest score treated as a negative signal
	NegativeThreshold int `yaml:"negative_threshold" json:"negative_threshold"`

	Categories []Category `yaml:"categories" json:"categories"`
	Sentiments []Level    `yaml:"sentiments" json:"sentiments"`
	Urgencies  []Tier     `yaml:"urgencies" json:"urgencies"`
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return builtin
}

// Load reads and validates a YAML taxonomy file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML taxonomy, normalizes its keywords and validates it.
func Parse(data []byte) (*Taxonomy, error) {
	t := &Taxonomy{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func mustParse(data []byte) *Taxonomy {
	t, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("built-in taxonomy: %v", err))
	}
	return t
}

// normalize lower-cases and dedupes every keyword list in place.
func (t *Taxonomy) normalize() {
	for i := range t.Categories {
		t.Categories[i].Keywords = normalizeKeywords(t.Categories[i].Keywords)
	}
	for i := range t.Sentiments {
		t.Sentiments[i].Keywords = normalizeKeywords(t.Sentiments[i].Keywords)
	}
	for i := range t.Urgencies {
		t.Urgencies[i].Keywords = normalizeKeywords(t.Urgencies[i].Keywords)
	}
}

func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Validate checks the structural rules every taxonomy must satisfy.
func (t *Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return errors.New("taxonomy has no categories")
	}

	numbers := make(map[int]bool, len(t.Categories))
	catchAll := 0
	for _, c := range t.Categories {
		if c.Number <= 0 {
			return fmt.Errorf("category %q: number must be positive", c.Label)
		}
		if numbers[c.Number] {
			return fmt.Errorf("category %q: duplicate number %d", c.Label, c.Number)
		}
		numbers[c.Number] = true

		if n, ok := LabelNumber(c.Label); ok && n != c.Number {
			return fmt.Errorf("category %q: label prefix %d disagrees with number %d", c.Label, n, c.Number)
		}
		if c.Label == InvalidLabel {
			return fmt.Errorf("category label %q is reserved", c.Label)
		}
		if c.CatchAll {
			catchAll++
			if len(c.Keywords) > 0 {
				return fmt.Errorf("catch-all category %q must not have keywords", c.Label)
			}
		}
		if err := checkKeywords(c.Label, c.Keywords); err != nil {
			return err
		}
	}
	if catchAll != 1 {
		return fmt.Errorf("taxonomy needs exactly one catch-all category, found %d", catchAll)
	}

	if len(t.Sentiments) == 0 {
		return errors.New("taxonomy has no sentiment levels")
	}
	scores := make(map[int]bool, len(t.Sentiments))
	for _, l := range t.Sentiments {
		if scores[l.Score] {
			return fmt.Errorf("sentiment level %q: duplicate score %d", l.Label, l.Score)
		}
		scores[l.Score] = true
		if err := checkKeywords(l.Label, l.Keywords); err != nil {
			return err
		}
	}
	if !scores[t.NeutralScore] {
		return fmt.Errorf("neutral_score %d is not a defined sentiment level", t.NeutralScore)
	}

	if len(t.Urgencies) == 0 {
		return errors.New("taxonomy has no urgency tiers")
	}
	for _, u := range t.Urgencies {
		if u.Name == "" || u.Label == "" {
			return errors.New("urgency tier needs both name and label")
		}
		if err := checkKeywords(u.Label, u.Keywords); err != nil {
			return err
		}
	}
	return nil
}

func checkKeywords(owner string, keywords []string) error {
	for _, k := range keywords {
		if k == "" {
			return fmt.Errorf("%q: empty keyword", owner)
		}
	}
	return nil
}

// LabelNumber parses the numeric prefix of a label such as "3-商业化".
func LabelNumber(label string) (int, bool) {
	prefix, _, found := strings.Cut(label, "-")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Category looks up a category by label.
func (t *Taxonomy) Category(label string) (Category, bool) {
	for _, c := range t.Categories {
		if c.Label == label {
			return c, true
		}
	}
	return Category{}, false
}

// CatchAll returns the category assigned when no trigger matches.
func (t *Taxonomy) CatchAll() Category {
	for _, c := range t.Categories {
		if c.CatchAll {
			return c
		}
	}
	return Category{}
}

// SentimentLevel looks up a sentiment level by score.
func (t *Taxonomy) SentimentLevel(score int) (Level, bool) {
	for _, l := range t.Sentiments {
		if l.Score == score {
			return l, true
		}
	}
	return Level{}, false
}

// SentimentScore maps a sentiment label back to its score.
func (t *Taxonomy) SentimentScore(label string) (int, bool) {
	for _, l := range t.Sentiments {
		if l.Label == label {
			return l.Score, true
		}
	}
	return 0, false
}

// UrgencyRank returns the severity rank of an urgency label (0 = most severe).
// Labels are matched exactly first, then by tier name prefix ("P0…").
func (t *Taxonomy) UrgencyRank(label string) (int, bool) {
	for i, u := range t.Urgencies {
		if u.Label == label {
			return i, true
		}
	}
	for i, u := range t.Urgencies {
		if strings.HasPrefix(label, u.Name) {
			return i, true
		}
	}
	return 0, false
}

// LeastUrgent returns the lowest severity tier, the default when nothing matches.
func (t *Taxonomy) LeastUrgent() Tier {
	return t.Urgencies[len(t.Urgencies)-1]
}
