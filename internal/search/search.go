// Package search invokes the external code-search collaborator and parses
// its ranked text output into fragments.
package search

import (
	"context"
	"errors"
)

// ErrNoResults signals that a search ran but produced no usable fragments.
// It marks an empty finding, not a failed invocation.
var ErrNoResults = errors.New("search returned no results")

// Fragment is one ranked search result: a named excerpt of a source file.
// Order within a result set is the collaborator's relevance ranking.
type Fragment struct {
	Name string // display name of the chunk (function, struct, ...)
	File string // source file label; "unknown" when the header had none
	Text string // excerpt body; may be empty when no body line followed
}

// Provider returns the topK most relevant fragments for a query.
// Implementations preserve the collaborator's ranking order.
type Provider interface {
	Search(ctx context.Context, query string, topK int) ([]Fragment, error)
}
