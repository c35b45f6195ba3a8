package strategy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ctxbench/ctxbench/internal/tokens"
)

// ErrNoFiles signals that none of the candidate files could be read.
var ErrNoFiles = errors.New("no candidate files could be read")

// KeywordGroup maps a set of trigger keywords to the files a reader would
// open for that topic.
type KeywordGroup struct {
	Keywords []string
	Files    []string
}

// Naive selects whole files by keyword matching against the query and
// includes their full contents. It is the baseline the retrieval strategy
// is measured against.
type Naive struct {
	Root    string // project root the candidate paths resolve against
	Groups  []KeywordGroup
	Default []string // candidate list when no group matches
	Counter tokens.Counter
}

// Name returns "naive".
func (n *Naive) Name() string { return "naive" }

// SelectFiles classifies the query case-insensitively against the keyword
// groups and returns the union of all matching groups' candidate lists,
// first-seen order preserved, duplicates removed. When no group matches it
// returns the default list.
func (n *Naive) SelectFiles(query string) []string {
	q := strings.ToLower(query)

	var files []string
	seen := make(map[string]bool)
	for _, g := range n.Groups {
		if !matchesAny(q, g.Keywords) {
			continue
		}
		for _, f := range g.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return append([]string(nil), n.Default...)
	}
	return files
}

func matchesAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// BuildContext reads every candidate file fully and concatenates the
// contents under path headers. Missing, unreadable, or non-text files are
// skipped with the error recorded; one bad file never aborts the assembly.
// When nothing at all could be read the result degrades to zero cost.
func (n *Naive) BuildContext(ctx context.Context, query string) ContextResult {
	var res ContextResult

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString("Entire file contents:\n\n")

	included := 0
	for _, rel := range n.SelectFiles(query) {
		content, err := os.ReadFile(filepath.Join(n.Root, rel))
		if err != nil {
			if os.IsNotExist(err) {
				res.Errors = append(res.Errors, fmt.Errorf("file not found: %s", rel))
			} else {
				res.Errors = append(res.Errors, fmt.Errorf("read %s: %w", rel, err))
			}
			continue
		}
		if !utf8.Valid(content) {
			res.Errors = append(res.Errors, fmt.Errorf("skipping non-text file: %s", rel))
			continue
		}
		fmt.Fprintf(&b, "--- File: %s ---\n%s\n\n", rel, content)
		res.Bytes += len(content)
		res.Sources = append(res.Sources, fmt.Sprintf("file: %s (%d bytes)", rel, len(content)))
		included++
	}

	if included == 0 {
		res.Errors = append(res.Errors, ErrNoFiles)
		return res
	}

	res.Text = b.String()
	res.Tokens = n.Counter.Count(res.Text)
	return res
}
