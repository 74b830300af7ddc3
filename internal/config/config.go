package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the per-user and per-repo configuration directory name.
const DirName = ".voc"

// Config holds application configuration.
type Config struct {
	// MaxComments is the maximum number of comments accepted in one batch
	MaxComments int `json:"max_comments"`

	// MaxCommentChars is the maximum length of a single comment, in characters
	MaxCommentChars int `json:"max_comment_chars"`

	// Workers is the number of goroutines analyzing comments of one batch.
	// 1 (the default) analyzes sequentially.
	Workers int `json:"workers,omitempty"`

	// TaxonomyPath points to a YAML taxonomy replacing the built-in one.
	// Relative paths are resolved against the directory of the config file.
	TaxonomyPath string `json:"taxonomy_path,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxComments:     1000,
		MaxCommentChars: 2000,
		Workers:         1,
		LogLevel:        "info",
	}
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if c.MaxComments < 0 {
		return fmt.Errorf("max_comments must be non-negative, got %d", c.MaxComments)
	}
	if c.MaxCommentChars < 0 {
		return fmt.Errorf("max_comment_chars must be non-negative, got %d", c.MaxCommentChars)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.voc.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.voc) and repo (.voc) directories.
// Repo config is found by walking upward from startDir to find the nearest .voc/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	cfg := Merge(Merge(DefaultConfig(), global), repo)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .voc/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	if cfg.TaxonomyPath != "" && !filepath.IsAbs(cfg.TaxonomyPath) {
		cfg.TaxonomyPath = filepath.Join(filepath.Dir(configPath), cfg.TaxonomyPath)
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.MaxComments = overlay.MaxComments
	if result.MaxComments == 0 {
		result.MaxComments = base.MaxComments
	}

	result.MaxCommentChars = overlay.MaxCommentChars
	if result.MaxCommentChars == 0 {
		result.MaxCommentChars = base.MaxCommentChars
	}

	result.Workers = overlay.Workers
	if result.Workers == 0 {
		result.Workers = base.Workers
	}

	result.TaxonomyPath = overlay.TaxonomyPath
	if result.TaxonomyPath == "" {
		result.TaxonomyPath = base.TaxonomyPath
	}

	result.LogLevel = overlay.LogLevel
	if result.LogLevel == "" {
		result.LogLevel = base.LogLevel
	}

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
