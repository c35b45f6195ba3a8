// Package config manages global (~/.config/ctxbench/config.toml) and
// per-project (.ctxbench.toml) configuration for ctxbench.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	DefaultModel string       `toml:"default_model"`
	Counter      string       `toml:"counter"`
	Format       string       `toml:"format"`
	Keys         KeysConfig   `toml:"keys"`
	Ollama       OllamaConfig `toml:"ollama"`
	Search       SearchConfig `toml:"search"`
}

type KeysConfig struct {
	Anthropic string `toml:"anthropic"`
	OpenAI    string `toml:"openai"`
	Gemini    string `toml:"gemini"`
}

type OllamaConfig struct {
	Host            string `toml:"host"`
	CompletionModel string `toml:"completion_model"`
}

// SearchConfig describes how the external search collaborator is invoked.
// The query and result depth are appended to Command as
// "--search <query> --top-k <k>".
type SearchConfig struct {
	Command        []string `toml:"command"`
	TopK           int      `toml:"top_k"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// ProjectConfig holds per-project settings stored in .ctxbench.toml at the
// project root, chiefly the keyword table the naive strategy selects files
// with.
type ProjectConfig struct {
	Counter string       `toml:"counter"`
	Format  string       `toml:"format"`
	DumpDir string       `toml:"dump_dir"`
	Search  SearchConfig `toml:"search"`
	Naive   NaiveConfig  `toml:"naive"`
}

// NaiveConfig is the explicit keyword-group to candidate-file table. The
// default files are used when no group's keywords match the query.
type NaiveConfig struct {
	Groups       []GroupConfig `toml:"groups"`
	DefaultFiles []string      `toml:"default_files"`
}

type GroupConfig struct {
	Keywords []string `toml:"keywords"`
	Files    []string `toml:"files"`
}

// DefaultGlobal returns sensible defaults.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		DefaultModel: "claude",
		Counter:      "words",
		Format:       "text",
		Ollama: OllamaConfig{
			Host:            "http://localhost:11434",
			CompletionModel: "llama3.2",
		},
		Search: SearchConfig{
			Command:        []string{"cargo", "run", "--bin", "indexer", "--"},
			TopK:           5,
			TimeoutSeconds: 120,
		},
	}
}

// DefaultNaive returns the stock keyword table. The paths describe the
// collaborator project the benchmark grew up against; real projects
// override them in .ctxbench.toml.
func DefaultNaive() NaiveConfig {
	return NaiveConfig{
		Groups: []GroupConfig{
			{
				Keywords: []string{"cli", "command", "argument", "clap"},
				Files:    []string{"src/main.rs", "src/bin/indexer.rs"},
			},
			{
				Keywords: []string{"voice", "audio", "record"},
				Files:    []string{"src/voice/mod.rs", "src/voice/capture.rs"},
			},
			{
				Keywords: []string{"llm", "gemini", "api"},
				Files:    []string{"src/llm/gemini_client.rs"},
			},
			{
				Keywords: []string{"index", "search", "chunk", "embed"},
				Files:    []string{"src/index/chunker.rs", "src/index/embedder.rs", "src/index/vector_store.rs"},
			},
		},
		DefaultFiles: []string{"src/main.rs", "Cargo.toml", "README.md"},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ctxbench", "config.toml"), nil
}

// ProjectConfigPath returns the path to a project's .ctxbench.toml.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, ".ctxbench.toml")
}

// LoadGlobal loads the global config, applying defaults for any missing
// values. API keys from the environment override the file.
func LoadGlobal() (cfg GlobalConfig, err error) {
	cfg = DefaultGlobal()

	// Environment keys win over file keys on every load path.
	defer func() {
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.Keys.Anthropic = v
		}
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.Keys.OpenAI = v
		}
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			cfg.Keys.Gemini = v
		}
	}()

	path, pathErr := GlobalConfigPath()
	if pathErr != nil {
		return cfg, nil // Defaults if we can't determine the home dir.
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return cfg, nil // File doesn't exist yet, use defaults.
	}

	if _, decErr := toml.DecodeFile(path, &cfg); decErr != nil {
		return cfg, fmt.Errorf("config: load global: %w", decErr)
	}
	return cfg, nil
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create global config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// LoadProject loads .ctxbench.toml from the given project root. A missing
// file is not an error; the zero config comes back.
func LoadProject(root string) (ProjectConfig, error) {
	var cfg ProjectConfig
	path := ProjectConfigPath(root)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load project: %w", err)
	}
	return cfg, nil
}

// SaveProject writes the project config to .ctxbench.toml.
func SaveProject(root string, cfg ProjectConfig) error {
	f, err := os.Create(ProjectConfigPath(root))
	if err != nil {
		return fmt.Errorf("config: create project config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Load returns the effective config for a project root: global settings
// with project overrides applied, plus the project config itself with the
// naive table defaulted. Callers that can run without a valid config warn
// on the error and keep the returned defaults; a corrupt file never costs
// them the env-var key overrides, which apply on every load path.
func Load(root string) (GlobalConfig, ProjectConfig, error) {
	global, gerr := LoadGlobal()
	project, perr := LoadProject(root)

	if project.Counter != "" {
		global.Counter = project.Counter
	}
	if project.Format != "" {
		global.Format = project.Format
	}
	if len(project.Search.Command) > 0 {
		global.Search.Command = project.Search.Command
	}
	if project.Search.TopK > 0 {
		global.Search.TopK = project.Search.TopK
	}
	if project.Search.TimeoutSeconds > 0 {
		global.Search.TimeoutSeconds = project.Search.TimeoutSeconds
	}

	if len(project.Naive.Groups) == 0 {
		project.Naive.Groups = DefaultNaive().Groups
	}
	if len(project.Naive.DefaultFiles) == 0 {
		project.Naive.DefaultFiles = DefaultNaive().DefaultFiles
	}

	return global, project, errors.Join(gerr, perr)
}
