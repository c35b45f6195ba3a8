package project

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreMatcher wraps a gitignore pattern matcher.
type IgnoreMatcher struct {
	gi *gitignore.GitIgnore
}

// NewIgnoreMatcher loads .gitignore from the project root.
// If no .gitignore file is found, the matcher accepts everything.
func NewIgnoreMatcher(root string) *IgnoreMatcher {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return &IgnoreMatcher{}
	}
	gi, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return &IgnoreMatcher{}
	}
	return &IgnoreMatcher{gi: gi}
}

// Match returns true if the given relative path should be ignored.
func (m *IgnoreMatcher) Match(relPath string) bool {
	if m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(relPath)
}

// hardIgnored contains directories that never warrant a benchmark re-run,
// regardless of .gitignore.
var hardIgnored = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"tmp":          true,
	"log":          true,
	"coverage":     true,
	"target":       true, // Rust/Java build output
}

// HardIgnore returns true if the directory name is always excluded.
func HardIgnore(name string) bool {
	return hardIgnored[name]
}

// skipExtensions contains file extensions whose changes are noise for a
// context benchmark.
var skipExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".ico": true, ".webp": true,
	".pdf": true,
	".zip": true, ".tar": true, ".gz": true, ".tgz": true,
	".exe": true, ".bin": true, ".dll": true, ".so": true, ".dylib": true,
	".lock": true,
	".sum":  true,
	".map":  true,
}

// SkipFile returns true for files whose changes should not trigger a
// re-run.
func SkipFile(name string) bool {
	if skipExtensions[filepath.Ext(name)] {
		return true
	}
	switch name {
	case "Gemfile.lock", "package-lock.json", "yarn.lock", "go.sum",
		"Cargo.lock", "composer.lock", "poetry.lock", "Pipfile.lock":
		return true
	}
	return false
}
