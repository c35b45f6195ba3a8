package bench

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ctxbench/ctxbench/internal/git"
	"github.com/ctxbench/ctxbench/internal/strategy"
	"github.com/ctxbench/ctxbench/internal/tokens"
)

// Renderer turns a Report into user-facing output in one format.
type Renderer interface {
	Render(r Report) (string, error)
}

// registry maps format names to Renderer implementations.
var registry = map[string]Renderer{
	"text":     &TextRenderer{},
	"markdown": &MarkdownRenderer{},
	"json":     &JSONRenderer{},
}

// RendererFor returns the Renderer registered under name, and whether it
// was found.
func RendererFor(name string) (Renderer, bool) {
	r, ok := registry[name]
	return r, ok
}

// ValidFormats returns the supported report format names.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	sort.Strings(formats)
	return formats
}

// TextRenderer is the default human-readable report.
type TextRenderer struct{}

// Render produces the aligned plain-text report.
func (*TextRenderer) Render(r Report) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "\nBenchmark: %s\n", r.Query)
	if r.Root != "" {
		if sum := r.Git.Summary(); sum != "" {
			fmt.Fprintf(&b, "Project:   %s (%s)\n", r.Root, sum)
		} else {
			fmt.Fprintf(&b, "Project:   %s\n", r.Root)
		}
	}
	fmt.Fprintf(&b, "Counter:   %s\n", r.CounterName)

	b.WriteString("\nContext cost:\n")
	fmt.Fprintf(&b, "  Retrieval (%s):    %7d tokens  (%d chunks, %s)\n",
		r.RAGName, r.RAG.Tokens, len(r.RAG.Sources), formatBytes(r.RAG.Bytes))
	fmt.Fprintf(&b, "  Full files (%s): %7d tokens  (%d files, %s)\n",
		r.NaiveName, r.Naive.Tokens, len(r.Naive.Sources), formatBytes(r.Naive.Bytes))

	switch {
	case !r.Complete():
		b.WriteString("\nResult: comparison incomplete\n")
		if r.RAG.Tokens <= 0 {
			b.WriteString("  retrieval produced no measurable context\n")
		}
		if r.Naive.Tokens <= 0 {
			b.WriteString("  full-file inclusion produced no measurable context\n")
		}
	case r.Savings() > 0:
		fmt.Fprintf(&b, "\nResult: retrieval saves %d tokens (%.1f%%)\n", r.Savings(), r.SavingsPercent())
		fmt.Fprintf(&b, "        %.1fx less context than full-file inclusion\n", r.EfficiencyRatio())
	case r.Savings() == 0:
		b.WriteString("\nResult: no savings; both contexts cost the same\n")
	default:
		fmt.Fprintf(&b, "\nResult: retrieval costs %d tokens more than full files (%.1f%% worse)\n",
			-r.Savings(), -r.SavingsPercent())
	}

	fmt.Fprintf(&b, "\nNote: %s.\n", counterCaveat(r.CounterName))
	return b.String(), nil
}

// MarkdownRenderer emits the report as a small markdown document.
type MarkdownRenderer struct{}

// Render produces markdown with a summary table.
func (*MarkdownRenderer) Render(r Report) (string, error) {
	var b strings.Builder

	b.WriteString("# Context benchmark\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", r.Query)
	if r.Root != "" {
		if sum := r.Git.Summary(); sum != "" {
			fmt.Fprintf(&b, "**Project:** `%s` (%s)\n\n", r.Root, sum)
		} else {
			fmt.Fprintf(&b, "**Project:** `%s`\n\n", r.Root)
		}
	}
	fmt.Fprintf(&b, "**Counter:** %s\n\n", r.CounterName)

	b.WriteString("| strategy | tokens | sources | bytes |\n")
	b.WriteString("|----------|-------:|--------:|------:|\n")
	fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", r.RAGName, r.RAG.Tokens, len(r.RAG.Sources), r.RAG.Bytes)
	fmt.Fprintf(&b, "| %s | %d | %d | %d |\n\n", r.NaiveName, r.Naive.Tokens, len(r.Naive.Sources), r.Naive.Bytes)

	switch {
	case !r.Complete():
		b.WriteString("**Result:** comparison incomplete; at least one strategy produced no measurable context.\n\n")
	case r.Savings() > 0:
		fmt.Fprintf(&b, "**Result:** retrieval saves %d tokens (%.1f%%), %.1fx less context.\n\n",
			r.Savings(), r.SavingsPercent(), r.EfficiencyRatio())
	case r.Savings() == 0:
		b.WriteString("**Result:** no savings; both contexts cost the same.\n\n")
	default:
		fmt.Fprintf(&b, "**Result:** retrieval costs %d tokens more than full-file inclusion (%.1f%% worse).\n\n",
			-r.Savings(), -r.SavingsPercent())
	}

	fmt.Fprintf(&b, "> Note: %s.\n", counterCaveat(r.CounterName))
	return b.String(), nil
}

// JSONRenderer emits the report as machine-readable JSON.
type JSONRenderer struct{}

type jsonLeg struct {
	Strategy string   `json:"strategy"`
	Tokens   int      `json:"tokens"`
	Sources  []string `json:"sources,omitempty"`
	Bytes    int      `json:"bytes"`
	Errors   []string `json:"errors,omitempty"`
}

type jsonReport struct {
	Query           string     `json:"query"`
	Counter         string     `json:"counter"`
	Root            string     `json:"root,omitempty"`
	Git             *git.State `json:"git,omitempty"`
	RAG             jsonLeg    `json:"rag"`
	Naive           jsonLeg    `json:"naive"`
	Complete        bool       `json:"complete"`
	Savings         int        `json:"savings"`
	SavingsPercent  float64    `json:"savings_percent"`
	EfficiencyRatio *float64   `json:"efficiency_ratio,omitempty"`
	Note            string     `json:"note"`
}

// Render marshals the report. The efficiency ratio is omitted when it is
// unbounded, since JSON cannot encode infinity.
func (*JSONRenderer) Render(r Report) (string, error) {
	out := jsonReport{
		Query:          r.Query,
		Counter:        r.CounterName,
		Root:           r.Root,
		RAG:            toJSONLeg(r.RAGName, r.RAG),
		Naive:          toJSONLeg(r.NaiveName, r.Naive),
		Complete:       r.Complete(),
		Savings:        r.Savings(),
		SavingsPercent: r.SavingsPercent(),
		Note:           counterCaveat(r.CounterName),
	}
	if !r.Git.IsEmpty() {
		g := r.Git
		out.Git = &g
	}
	if ratio := r.EfficiencyRatio(); !math.IsInf(ratio, 1) {
		out.EfficiencyRatio = &ratio
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

func toJSONLeg(name string, res strategy.ContextResult) jsonLeg {
	leg := jsonLeg{
		Strategy: name,
		Tokens:   res.Tokens,
		Sources:  res.Sources,
		Bytes:    res.Bytes,
	}
	for _, err := range res.Errors {
		leg.Errors = append(leg.Errors, err.Error())
	}
	return leg
}

// counterCaveat explains how far the active counter is from a real model
// tokenizer; every report carries it so the numbers are not over-read.
func counterCaveat(name string) string {
	switch name {
	case tokens.CounterTiktoken:
		return "token counts use cl100k_base BPE, close to but not identical to any one model's tokenizer"
	case tokens.CounterChars:
		return "token counts estimate 4 characters per token; real tokenizers vary with content"
	default:
		return "token counts split on whitespace, a rough proxy; real model tokenizers count punctuation and subwords"
	}
}

func formatBytes(b int) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := unit, 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
