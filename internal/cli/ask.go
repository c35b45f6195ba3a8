package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ctxbench/ctxbench/internal/adapter"
	"github.com/ctxbench/ctxbench/internal/config"
	"github.com/ctxbench/ctxbench/internal/strategy"
	"github.com/ctxbench/ctxbench/internal/tokens"
)

const askSystemPrompt = "You are answering questions about a codebase. " +
	"Ground your answer in the provided context and say so when the context is insufficient."

func newAskCmd() *cobra.Command {
	var (
		model        string
		strategyName string
		rootDir      string
		topK         int
		contextOnly  bool
		verbose      bool
		maxTokens    int
		temperature  float64
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question using the retrieval-built context",
		Long: `Build a context for the question (retrieval by default), send it to the
configured LLM, and stream the answer. This is the payoff of a good
benchmark result: the cheaper context, actually used.

Examples:
  ctxbench ask "How does the chunker split files?"
  ctxbench ask "Explain the voice capture flow" --model openai
  ctxbench ask "What does the indexer binary do?" --strategy naive
  ctxbench ask "How is audio recorded?" --context-only`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			root, err := resolveRoot(rootDir)
			if err != nil {
				return err
			}

			global, projCfg, _ := config.Load(root)

			providerName := global.DefaultModel
			if model != "" {
				providerName = model
			}

			counter, err := tokens.New(global.Counter)
			if err != nil {
				counter, _ = tokens.New(tokens.DefaultCounter)
			}

			rag, naive := buildStrategies(root, global, projCfg, counter, topK)

			var strat strategy.ContextStrategy
			switch strategyName {
			case "", "rag":
				strat = rag
			case "naive":
				strat = naive
			default:
				return fmt.Errorf("unknown strategy %q (valid: rag, naive)", strategyName)
			}

			res := strat.BuildContext(context.Background(), question)
			for _, e := range res.Errors {
				fmt.Fprintf(os.Stderr, "  Warning: %v\n", e)
			}
			if res.Text == "" {
				return fmt.Errorf("no context could be assembled for %q", question)
			}

			if verbose && len(res.Sources) > 0 {
				fmt.Fprintln(os.Stderr, "=== Sources included ===")
				for _, s := range res.Sources {
					fmt.Fprintf(os.Stderr, "  • %s\n", s)
				}
				fmt.Fprintln(os.Stderr)
			}

			if contextOnly {
				fmt.Println("=== Context ===")
				fmt.Println(res.Text)
				fmt.Printf("\n--- %d tokens ---\n", res.Tokens)
				return nil
			}

			llm, err := adapter.New(providerName, apiKey(global, providerName),
				global.Ollama.Host, global.Ollama.CompletionModel)
			if err != nil {
				return fmt.Errorf("init LLM adapter: %w", err)
			}

			stream, err := llm.Complete(context.Background(), adapter.CompletionRequest{
				SystemPrompt: askSystemPrompt,
				Context:      res.Text,
				UserMessage:  question,
				MaxTokens:    maxTokens,
				Temperature:  temperature,
				Stream:       true,
			})
			if err != nil {
				return fmt.Errorf("LLM request: %w", err)
			}

			for chunk := range stream {
				if chunk.Error != nil {
					return fmt.Errorf("stream error: %w", chunk.Error)
				}
				fmt.Print(chunk.Text)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "LLM provider override: claude, openai, gemini, ollama")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "context strategy: rag or naive (default rag)")
	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "project root (default: auto-detect from cwd)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "chunks to retrieve (default from config)")
	cmd.Flags().BoolVar(&contextOnly, "context-only", false, "print the assembled context without calling the LLM")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show which chunks and files went into the context")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 4096, "maximum response tokens")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.7, "sampling temperature")

	return cmd
}

// apiKey returns the configured API key for the given provider.
func apiKey(cfg config.GlobalConfig, provider string) string {
	switch provider {
	case adapter.ProviderClaude:
		return cfg.Keys.Anthropic
	case adapter.ProviderOpenAI:
		return cfg.Keys.OpenAI
	case adapter.ProviderGemini:
		return cfg.Keys.Gemini
	default:
		return ""
	}
}
