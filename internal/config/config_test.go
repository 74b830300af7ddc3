package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.MaxComments != want.MaxComments {
		t.Errorf("MaxComments = %d, want %d", cfg.MaxComments, want.MaxComments)
	}
	if cfg.MaxCommentChars != want.MaxCommentChars {
		t.Errorf("MaxCommentChars = %d, want %d", cfg.MaxCommentChars, want.MaxCommentChars)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"max_comments": 50, "workers": 4, "log_level": "debug"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxComments != 50 {
		t.Errorf("MaxComments = %d, want 50", cfg.MaxComments)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.MaxCommentChars != DefaultConfig().MaxCommentChars {
		t.Errorf("MaxCommentChars = %d, want default", cfg.MaxCommentChars)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative workers", `{"workers": -2}`},
		{"negative max comments", `{"max_comments": -1}`},
		{"unknown log level", `{"log_level": "verbose"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.body)
			if _, err := Load(tmpDir); err == nil {
				t.Fatalf("Load() expected error for %s", tt.body)
			}
		})
	}
}

func TestLoad_RelativeTaxonomyPath(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"taxonomy_path": "taxonomy.yaml"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(tmpDir, "taxonomy.yaml")
	if cfg.TaxonomyPath != want {
		t.Errorf("TaxonomyPath = %q, want %q", cfg.TaxonomyPath, want)
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["voc_taxonomy", " voc_classify "]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools = %v, want 2 entries", cfg.DisabledTools)
	}
	if cfg.DisabledTools[1] != "voc_classify" {
		t.Errorf("DisabledTools[1] = %q, want trimmed voc_classify", cfg.DisabledTools[1])
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"max_comments": 800, "disabled_tools": ["voc_taxonomy"]}`)
	writeConfig(t, filepath.Join(repoRoot, DirName), `{"max_comments": 200, "disabled_tools": ["voc_classify"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	// Repo overrides scalar
	if cfg.MaxComments != 200 {
		t.Errorf("MaxComments = %d, want 200 (repo override)", cfg.MaxComments)
	}

	// Arrays merged
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.MaxComments != DefaultConfig().MaxComments {
		t.Errorf("MaxComments = %d, want default", cfg.MaxComments)
	}
	if cfg.DisabledTools != nil {
		t.Errorf("DisabledTools = %v, want nil", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	tmpDir := t.TempDir()
	globalDir := t.TempDir()

	writeConfig(t, filepath.Join(tmpDir, DirName), `{"disabled_tools": ["voc_analyze"]}`)

	subdir := filepath.Join(tmpDir, "subdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "voc_analyze" {
		t.Errorf("DisabledTools = %v, want [voc_analyze]", cfg.DisabledTools)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{MaxComments: 1000, Workers: 4, LogLevel: "info"}
	overlay := &Config{MaxComments: 10, LogLevel: "warn"} // Workers is 0 (zero value)

	result := Merge(base, overlay)

	if result.MaxComments != 10 {
		t.Errorf("MaxComments = %d, want 10 (overlay)", result.MaxComments)
	}
	if result.Workers != 4 {
		t.Errorf("Workers = %d, want 4 (base, overlay is zero)", result.Workers)
	}
	if result.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn (overlay)", result.LogLevel)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"voc_analyze", "voc_classify"}}
	overlay := &Config{DisabledTools: []string{"voc_classify", "voc_taxonomy"}}

	result := Merge(base, overlay)

	if len(result.DisabledTools) != 3 {
		t.Errorf("DisabledTools length = %d, want 3 (merged, deduped)", len(result.DisabledTools))
	}
}

func TestFindRepoConfig_InParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, filepath.Join(tmpDir, DirName), `{}`)

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if found := FindRepoConfig(subdir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
}
