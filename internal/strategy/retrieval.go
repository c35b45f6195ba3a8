package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/ctxbench/ctxbench/internal/search"
	"github.com/ctxbench/ctxbench/internal/tokens"
)

// DefaultTopK matches the collaborator's default result depth.
const DefaultTopK = 5

// Retrieval asks the search collaborator for the most relevant fragments
// and concatenates them with provenance headers.
type Retrieval struct {
	Provider search.Provider
	Counter  tokens.Counter
	TopK     int // DefaultTopK when zero
}

// Name returns "rag".
func (r *Retrieval) Name() string { return "rag" }

// BuildContext retrieves fragments and assembles the context in ranking
// order. Invocation failures and empty findings both degrade to a
// zero-cost result with the cause recorded in Errors; they are told apart
// by search.ErrNoResults.
func (r *Retrieval) BuildContext(ctx context.Context, query string) ContextResult {
	var res ContextResult

	topK := r.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	frags, err := r.Provider.Search(ctx, query, topK)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("search failed: %w", err))
		return res
	}
	if len(frags) == 0 {
		res.Errors = append(res.Errors, search.ErrNoResults)
		return res
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString("Relevant code chunks:\n\n")
	for i, f := range frags {
		fmt.Fprintf(&b, "--- Chunk %d: %s from %s ---\n%s\n\n", i+1, f.Name, f.File, f.Text)
		res.Bytes += len(f.Text)
		res.Sources = append(res.Sources, fmt.Sprintf("chunk: %s (%s)", f.Name, f.File))
	}

	res.Text = b.String()
	res.Tokens = r.Counter.Count(res.Text)
	return res
}
