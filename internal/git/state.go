// Package git captures repository state for benchmark provenance, so a
// report can say which tree it measured.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// State identifies the tree a benchmark ran against.
type State struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"` // short hash
	Dirty  int    `json:"dirty,omitempty"`  // files with uncommitted changes, untracked included
}

// IsEmpty reports whether no repository information was found.
func (s State) IsEmpty() bool {
	return s.Branch == "" && s.Commit == ""
}

// Summary renders a one-line description, e.g. "main@a1b2c3d (2 dirty files)".
func (s State) Summary() string {
	if s.IsEmpty() {
		return ""
	}
	out := s.Branch
	if s.Commit != "" {
		out += "@" + s.Commit
	}
	switch {
	case s.Dirty == 1:
		out += " (1 dirty file)"
	case s.Dirty > 1:
		out += fmt.Sprintf(" (%d dirty files)", s.Dirty)
	}
	return out
}

// Capture runs git in dir and returns what it finds. All errors are
// swallowed: outside a repository, or without git installed, the zero
// State comes back.
func Capture(dir string) State {
	var s State
	s.Branch = gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
	s.Commit = gitOutput(dir, "rev-parse", "--short", "HEAD")

	if porcelain := gitOutput(dir, "status", "--porcelain"); porcelain != "" {
		s.Dirty = len(strings.Split(porcelain, "\n"))
	}
	return s
}

// gitOutput runs a git command and returns trimmed stdout.
// Returns "" on any error.
func gitOutput(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
