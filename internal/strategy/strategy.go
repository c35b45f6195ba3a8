// Package strategy implements the context-construction strategies under
// comparison: retrieval-backed fragment assembly and naive whole-file
// inclusion.
package strategy

import "context"

// ContextResult is the common output shape of every strategy: the assembled
// context and its measured cost. Both strategies produce this shape so the
// comparator can treat them interchangeably.
type ContextResult struct {
	Tokens  int      // cost of Text under the active counter
	Text    string   // the assembled context; empty when nothing was gathered
	Sources []string // human-readable labels of what was included
	Bytes   int      // total bytes of included content
	Errors  []error  // non-fatal gathering errors, printed as warnings
}

// ContextStrategy builds a prompt context for a query. Implementations fail
// soft: gathering problems are recorded in the result's Errors and degrade
// the result to zero cost, never to a fault.
type ContextStrategy interface {
	Name() string
	BuildContext(ctx context.Context, query string) ContextResult
}
