package cli

import (
	"github.com/spf13/cobra"

	"github.com/ctxbench/ctxbench/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the comparison tools over MCP stdio",
		Long: `Expose compare_context and build_context as MCP tools on stdin/stdout,
so agent tooling can measure and reuse the cheaper context.

Client configuration:

  {"mcpServers": {"ctxbench": {"command": "ctxbench", "args": ["mcp"]}}}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(rootDir)
			if err != nil {
				return err
			}
			return mcp.NewServer(root, version).Serve()
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "project root (default: auto-detect from cwd)")

	return cmd
}
