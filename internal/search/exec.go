package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single search invocation. Indexers that compile
// on first run (cargo run) can be slow, so the default is generous.
const DefaultTimeout = 120 * time.Second

// ExecProvider runs the search collaborator as a subprocess. The query and
// top-k are passed as "--search <query> --top-k <k>" appended to Command.
type ExecProvider struct {
	// Command is the collaborator argv prefix, e.g.
	// ["cargo", "run", "--bin", "indexer", "--"].
	Command []string

	// Dir is the working directory for the subprocess, normally the
	// project root.
	Dir string

	// Timeout bounds the subprocess wait. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Search invokes the collaborator and parses its output. A non-zero exit,
// I/O error, or timeout returns an error; callers decide how soft to fail.
func (p *ExecProvider) Search(ctx context.Context, query string, topK int) ([]Fragment, error) {
	if len(p.Command) == 0 {
		return nil, errors.New("search: no command configured")
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string{}, p.Command[1:]...)
	args = append(args, "--search", query, "--top-k", strconv.Itoa(topK))

	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	cmd.Dir = p.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = nil

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("search timed out after %s: %w", timeout, ctx.Err())
		}
		if msg := firstLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("search command failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("search command failed: %w", err)
	}

	return ParseResults(stdout.String()), nil
}

// firstLine extracts the first non-empty stderr line for error messages.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
