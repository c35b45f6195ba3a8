package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ctxbench/ctxbench/internal/config"
	"github.com/ctxbench/ctxbench/internal/tokens"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive first-time configuration",
		Long:  "Configure API keys, the default LLM provider for `ctxbench ask`, and the default cost counter.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			fmt.Println("Let's configure ctxbench.")
			fmt.Println()

			cfg := config.DefaultGlobal()

			// Step 1: Choose LLM provider.
			fmt.Println("Which LLM should `ctxbench ask` use?")
			fmt.Println("  [1] Claude (Anthropic)")
			fmt.Println("  [2] OpenAI (GPT-4o)")
			fmt.Println("  [3] Gemini (Google)")
			fmt.Println("  [4] Ollama (local)")
			fmt.Print("> ")

			choice := readLineBuf(reader)
			switch strings.TrimSpace(choice) {
			case "1":
				cfg.DefaultModel = "claude"
				fmt.Print("Enter your Anthropic API key (or press Enter to set ANTHROPIC_API_KEY later): ")
				if key := readLineBuf(reader); key != "" {
					cfg.Keys.Anthropic = key
				}
			case "2":
				cfg.DefaultModel = "openai"
				fmt.Print("Enter your OpenAI API key (or press Enter to set OPENAI_API_KEY later): ")
				if key := readLineBuf(reader); key != "" {
					cfg.Keys.OpenAI = key
				}
			case "3":
				cfg.DefaultModel = "gemini"
				fmt.Print("Enter your Gemini API key (or press Enter to set GEMINI_API_KEY later): ")
				if key := readLineBuf(reader); key != "" {
					cfg.Keys.Gemini = key
				}
			case "4":
				cfg.DefaultModel = "ollama"
				fmt.Printf("Ollama host (press Enter for %s): ", cfg.Ollama.Host)
				if host := readLineBuf(reader); host != "" {
					cfg.Ollama.Host = host
				}
			default:
				fmt.Println("Unrecognized choice; defaulting to claude.")
				cfg.DefaultModel = "claude"
			}

			fmt.Println()

			// Step 2: Choose the default cost counter.
			fmt.Println("Default cost counter for reports:")
			fmt.Println("  [1] words    (whitespace splitting; fast, rough)")
			fmt.Println("  [2] chars    (length divided by 4)")
			fmt.Println("  [3] tiktoken (cl100k_base BPE; closest to real model tokenizers)")
			fmt.Print("> ")

			switch strings.TrimSpace(readLineBuf(reader)) {
			case "2":
				cfg.Counter = tokens.CounterChars
			case "3":
				cfg.Counter = tokens.CounterTiktoken
			default:
				cfg.Counter = tokens.CounterWords
			}

			fmt.Println()

			if err := config.SaveGlobal(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			path, _ := config.GlobalConfigPath()
			fmt.Printf("Configuration saved to %s\n", path)
			fmt.Println("Navigate to a project and run `ctxbench init` to set up its keyword table.")

			return nil
		},
	}
}

// readLineBuf reads a trimmed line from a bufio.Reader.
func readLineBuf(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
