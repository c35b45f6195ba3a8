package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ctxbench/ctxbench/internal/bench"
	"github.com/ctxbench/ctxbench/internal/config"
	"github.com/ctxbench/ctxbench/internal/project"
	"github.com/ctxbench/ctxbench/internal/search"
	"github.com/ctxbench/ctxbench/internal/strategy"
	"github.com/ctxbench/ctxbench/internal/tokens"
)

// envSaveContexts enables the context dump when set to a truthy value.
const envSaveContexts = "CTXBENCH_SAVE_CONTEXTS"

func newBenchmarkCmd() *cobra.Command {
	var (
		topK         int
		rootDir      string
		counterName  string
		format       string
		saveContexts bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "ctxbench <query>",
		Short: "Measure the token savings of retrieval-based context over whole files",
		Long: `ctxbench measures how many tokens a retrieval-based context saves over
naively pasting whole files, for a natural-language query about a codebase.

It asks the project's search indexer for ranked chunks, assembles a
whole-file baseline from a keyword table, costs both contexts with the same
counter, and prints the comparison.

Examples:
  ctxbench "how does the indexer chunk files?"
  ctxbench "how do I add a CLI command?" --counter tiktoken --top-k 3
  ctxbench "where is audio captured?" --format json

Run 'ctxbench init' in a project to set up its keyword table.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument shape is validated by now; later failures are
			// diagnostics, not usage problems.
			cmd.SilenceUsage = true

			query := args[0]

			root, err := resolveRoot(rootDir)
			if err != nil {
				return err
			}

			global, projCfg, cfgErr := config.Load(root)
			if cfgErr != nil {
				fmt.Fprintf(os.Stderr, "  Warning: %v\n", cfgErr)
			}

			// Flags override config; a bad flag value is fatal, a bad
			// config value degrades to the default.
			counter, err := resolveCounter(counterName, global.Counter)
			if err != nil {
				return err
			}
			renderer, err := resolveRenderer(format, global.Format)
			if err != nil {
				return err
			}

			rag, naive := buildStrategies(root, global, projCfg, counter, topK)
			comp := &bench.Comparator{
				RAG:         rag,
				Naive:       naive,
				CounterName: counter.Name(),
				Root:        root,
			}

			var bar *progressbar.ProgressBar
			if term.IsTerminal(int(os.Stderr.Fd())) {
				bar = progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("  Comparing contexts"),
					progressbar.OptionSpinnerType(14),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
				)
			}

			report := comp.Run(context.Background(), query)

			if bar != nil {
				_ = bar.Finish()
			}

			warnStrategyErrors(report)

			if verbose {
				printSources(report)
			}

			out, err := renderer.Render(report)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  Warning: render failed: %v\n", err)
				return nil
			}
			fmt.Print(out)

			if saveContexts || truthyEnv(os.Getenv(envSaveContexts)) {
				dumper := &bench.Dumper{Dir: projCfg.DumpDir}
				paths, err := dumper.Dump(report)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  Warning: could not save contexts: %v\n", err)
				} else {
					fmt.Printf("Contexts saved:\n  %s\n  %s\n", paths.RAG, paths.Naive)
				}
			}

			// Runtime failures, including a comparison that found nothing,
			// have already been reported; only argument errors exit non-zero.
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "chunks to retrieve (default from config)")
	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "project root (default: auto-detect from cwd)")
	cmd.Flags().StringVarP(&counterName, "counter", "c", "", "cost counter: words, chars, tiktoken (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: text, markdown, json (default from config)")
	cmd.Flags().BoolVar(&saveContexts, "save-contexts", false, "write both contexts to files and print their paths")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every chunk and file that went into each context")

	return cmd
}

// resolveRoot returns the project root: the override when given, otherwise
// the nearest root above the working directory.
func resolveRoot(override string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve root: %w", err)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return project.FindRoot(cwd)
}

// resolveCounter picks the effective counter. An invalid flag value is an
// error; an invalid configured value falls back to the default with a
// warning, so a stale config never blocks a run.
func resolveCounter(flagValue, configValue string) (tokens.Counter, error) {
	if flagValue != "" {
		return tokens.New(flagValue)
	}
	counter, err := tokens.New(configValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v; using %s\n", err, tokens.DefaultCounter)
		counter, _ = tokens.New(tokens.DefaultCounter)
	}
	return counter, nil
}

// resolveRenderer picks the report renderer with the same flag/config
// precedence as resolveCounter.
func resolveRenderer(flagValue, configValue string) (bench.Renderer, error) {
	name := configValue
	if flagValue != "" {
		name = flagValue
	}
	renderer, ok := bench.RendererFor(name)
	if !ok {
		if flagValue != "" {
			return nil, fmt.Errorf("unknown format %q; valid formats: %s",
				name, strings.Join(bench.ValidFormats(), ", "))
		}
		fmt.Fprintf(os.Stderr, "  Warning: unknown format %q in config; using text\n", name)
		renderer, _ = bench.RendererFor("text")
	}
	return renderer, nil
}

// buildStrategies assembles both context strategies from the effective
// config. A topK of zero defers to the configured result depth.
func buildStrategies(root string, global config.GlobalConfig, projCfg config.ProjectConfig, counter tokens.Counter, topK int) (*strategy.Retrieval, *strategy.Naive) {
	if topK <= 0 {
		topK = global.Search.TopK
	}

	provider := &search.ExecProvider{
		Command: global.Search.Command,
		Dir:     root,
		Timeout: time.Duration(global.Search.TimeoutSeconds) * time.Second,
	}

	groups := make([]strategy.KeywordGroup, 0, len(projCfg.Naive.Groups))
	for _, g := range projCfg.Naive.Groups {
		groups = append(groups, strategy.KeywordGroup{Keywords: g.Keywords, Files: g.Files})
	}

	rag := &strategy.Retrieval{Provider: provider, Counter: counter, TopK: topK}
	naive := &strategy.Naive{
		Root:    root,
		Groups:  groups,
		Default: projCfg.Naive.DefaultFiles,
		Counter: counter,
	}
	return rag, naive
}

// warnStrategyErrors prints each strategy's gathering problems to stderr.
// They are diagnostics: the report still renders.
func warnStrategyErrors(r bench.Report) {
	for _, err := range r.RAG.Errors {
		fmt.Fprintf(os.Stderr, "  Warning: %s: %v\n", r.RAGName, err)
	}
	for _, err := range r.Naive.Errors {
		fmt.Fprintf(os.Stderr, "  Warning: %s: %v\n", r.NaiveName, err)
	}
}

// printSources lists what went into each context, on stderr so piped
// reports stay clean.
func printSources(r bench.Report) {
	fmt.Fprintln(os.Stderr, "=== Sources included ===")
	for _, s := range r.RAG.Sources {
		fmt.Fprintf(os.Stderr, "  • %s\n", s)
	}
	for _, s := range r.Naive.Sources {
		fmt.Fprintf(os.Stderr, "  • %s\n", s)
	}
	fmt.Fprintln(os.Stderr)
}

// truthyEnv reports whether an environment flag value means enabled.
func truthyEnv(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
