// Package bench runs both context strategies for a query and reports the
// token savings of retrieval over naive whole-file inclusion.
package bench

import (
	"context"
	"math"

	"github.com/ctxbench/ctxbench/internal/git"
	"github.com/ctxbench/ctxbench/internal/strategy"
)

// Comparator runs the retrieval and naive strategies and derives a Report.
type Comparator struct {
	RAG   strategy.ContextStrategy
	Naive strategy.ContextStrategy

	// CounterName labels the cost metric in reports.
	CounterName string

	// Root is the measured tree. Git state is captured from it for report
	// provenance when non-empty.
	Root string
}

// Report is the outcome of one comparison run. The derived figures are
// methods so rendering can never disagree with the raw costs.
type Report struct {
	Query       string
	CounterName string
	Root        string
	Git         git.State

	RAGName   string
	RAG       strategy.ContextResult
	NaiveName string
	Naive     strategy.ContextResult
}

// Run executes both strategies sequentially and assembles the report.
// Strategies fail soft, so Run always returns a usable Report; gathering
// problems surface in the per-strategy Errors.
func (c *Comparator) Run(ctx context.Context, query string) Report {
	r := Report{
		Query:       query,
		CounterName: c.CounterName,
		Root:        c.Root,
		RAGName:     c.RAG.Name(),
		NaiveName:   c.Naive.Name(),
	}
	if c.Root != "" {
		r.Git = git.Capture(c.Root)
	}
	r.RAG = c.RAG.BuildContext(ctx, query)
	r.Naive = c.Naive.BuildContext(ctx, query)
	return r
}

// Complete reports whether both strategies produced a measurable context.
// An incomplete comparison is a measurement outcome, not an error.
func (r Report) Complete() bool {
	return r.RAG.Tokens > 0 && r.Naive.Tokens > 0
}

// Savings is naive cost minus retrieval cost; positive when retrieval wins.
func (r Report) Savings() int {
	return r.Naive.Tokens - r.RAG.Tokens
}

// SavingsPercent is the savings as a share of the naive cost.
func (r Report) SavingsPercent() float64 {
	if r.Naive.Tokens == 0 {
		return 0
	}
	return float64(r.Savings()) / float64(r.Naive.Tokens) * 100
}

// EfficiencyRatio is how many times more expensive the naive context is.
// It is +Inf when the retrieval cost is zero; renderers print that as
// "unbounded" rather than dividing by zero.
func (r Report) EfficiencyRatio() float64 {
	if r.RAG.Tokens == 0 {
		return math.Inf(1)
	}
	return float64(r.Naive.Tokens) / float64(r.RAG.Tokens)
}
