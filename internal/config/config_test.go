package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGlobal(t *testing.T) {
	cfg := DefaultGlobal()

	if cfg.DefaultModel != "claude" {
		t.Errorf("default model: got %q, want %q", cfg.DefaultModel, "claude")
	}
	if cfg.Counter != "words" {
		t.Errorf("counter: got %q, want %q", cfg.Counter, "words")
	}
	if cfg.Format != "text" {
		t.Errorf("format: got %q, want %q", cfg.Format, "text")
	}
	if cfg.Search.TopK != 5 {
		t.Errorf("top k: got %d, want 5", cfg.Search.TopK)
	}
	if cfg.Search.TimeoutSeconds != 120 {
		t.Errorf("timeout: got %d, want 120", cfg.Search.TimeoutSeconds)
	}
	if len(cfg.Search.Command) == 0 || cfg.Search.Command[0] != "cargo" {
		t.Errorf("search command: got %v", cfg.Search.Command)
	}
	if cfg.Ollama.Host != "http://localhost:11434" {
		t.Errorf("ollama host: got %q", cfg.Ollama.Host)
	}
}

func TestDefaultNaive(t *testing.T) {
	n := DefaultNaive()

	if len(n.Groups) != 4 {
		t.Fatalf("groups: got %d, want 4", len(n.Groups))
	}
	if n.Groups[0].Keywords[0] != "cli" {
		t.Errorf("first group keywords: got %v", n.Groups[0].Keywords)
	}
	if len(n.DefaultFiles) != 3 {
		t.Errorf("default files: got %v", n.DefaultFiles)
	}
}

func TestProjectConfigPath(t *testing.T) {
	got := ProjectConfigPath("/home/user/project")
	want := filepath.Join("/home/user/project", ".ctxbench.toml")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadProject_NoFile(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Counter != "" || len(cfg.Naive.Groups) != 0 {
		t.Errorf("expected zero-value config, got %+v", cfg)
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	dir := t.TempDir()
	cfg := ProjectConfig{
		Counter: "tiktoken",
		DumpDir: "/tmp/dumps",
		Search:  SearchConfig{Command: []string{"./searcher"}, TopK: 8},
		Naive: NaiveConfig{
			Groups: []GroupConfig{
				{Keywords: []string{"http", "server"}, Files: []string{"internal/server/server.go"}},
			},
			DefaultFiles: []string{"main.go", "go.mod"},
		},
	}

	if err := SaveProject(dir, cfg); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	loaded, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if loaded.Counter != "tiktoken" {
		t.Errorf("counter: got %q", loaded.Counter)
	}
	if loaded.Search.TopK != 8 {
		t.Errorf("top k: got %d", loaded.Search.TopK)
	}
	if len(loaded.Naive.Groups) != 1 || loaded.Naive.Groups[0].Files[0] != "internal/server/server.go" {
		t.Errorf("naive groups: got %+v", loaded.Naive.Groups)
	}
}

func TestLoad_MergesProjectOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // keep any real global config out of the test
	dir := t.TempDir()

	SaveProject(dir, ProjectConfig{
		Counter: "chars",
		Search:  SearchConfig{TopK: 9},
	})

	global, project, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if global.Counter != "chars" {
		t.Errorf("expected project counter override, got %q", global.Counter)
	}
	if global.Search.TopK != 9 {
		t.Errorf("expected project top-k override, got %d", global.Search.TopK)
	}
	// Search command was not overridden, so the default stays.
	if len(global.Search.Command) == 0 || global.Search.Command[0] != "cargo" {
		t.Errorf("search command should keep default, got %v", global.Search.Command)
	}
	// Absent table falls back to the stock one.
	if len(project.Naive.Groups) != 4 {
		t.Errorf("expected default naive table, got %d groups", len(project.Naive.Groups))
	}
}

func TestLoad_CorruptGlobalKeepsDefaultsAndEnvKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "env-key-xyz")

	path, err := GlobalConfigPath()
	if err != nil {
		t.Fatalf("GlobalConfigPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("counter = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	global, project, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected an error for a corrupt global config file")
	}
	// The run still proceeds on defaults, with the env key intact.
	if global.Counter != "words" {
		t.Errorf("counter: got %q, want default %q", global.Counter, "words")
	}
	if global.Keys.Anthropic != "env-key-xyz" {
		t.Errorf("env key override lost: got %q, want %q", global.Keys.Anthropic, "env-key-xyz")
	}
	if len(project.Naive.Groups) != 4 {
		t.Errorf("expected default naive table, got %d groups", len(project.Naive.Groups))
	}
}

func TestLoadGlobal_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "test-key-123")

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Keys.Anthropic != "test-key-123" {
		t.Errorf("expected env override, got %q", cfg.Keys.Anthropic)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	path, err := GlobalConfigPath()
	if err != nil {
		t.Fatalf("GlobalConfigPath: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected config.toml, got %q", filepath.Base(path))
	}
}
