package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ctxbench/ctxbench/internal/config"
)

func newInitCmd() *cobra.Command {
	var (
		rootDir string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .ctxbench.toml for this project",
		Long: `Create .ctxbench.toml at the project root, seeded with the stock keyword
table and search command. Edit the [naive] groups to name the files a
developer would actually paste for each topic; that table is the baseline
the retrieval strategy is measured against.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(rootDir)
			if err != nil {
				return err
			}

			path := config.ProjectConfigPath(root)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			pcfg := config.ProjectConfig{
				Search: config.SearchConfig{
					Command: config.DefaultGlobal().Search.Command,
				},
				Naive: config.DefaultNaive(),
			}
			if err := config.SaveProject(root, pcfg); err != nil {
				return fmt.Errorf("write project config: %w", err)
			}

			fmt.Printf("Wrote %s\n", path)
			fmt.Println()
			fmt.Println("Edit the [naive] keyword groups to match this project's layout, then run:")
			fmt.Println(`  ctxbench "how does the indexer chunk files?"`)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "Project root directory (default: auto-detect from cwd)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .ctxbench.toml")

	return cmd
}
