// Package project locates the benchmarked project root and decides which
// paths matter when watching one.
package project

import (
	"os"
	"path/filepath"
)

// rootMarkers identify a project root when no .ctxbench.toml is present.
var rootMarkers = []string{".git", "go.mod", "package.json", "Gemfile",
	"Cargo.toml", "pyproject.toml", "requirements.txt", "pom.xml",
	"build.gradle"}

// FindRoot walks up from startDir looking for a project root. A
// .ctxbench.toml anywhere up the tree names the root explicitly and wins
// over generic markers, so nested projects resolve to the configured one.
// Without any marker, startDir itself comes back.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, ".ctxbench.toml")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	for d := dir; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(d, marker)); err == nil {
				return d, nil
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			return startDir, nil
		}
		d = parent
	}
}
