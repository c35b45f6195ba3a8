// Package mcp serves the context comparison over MCP stdio so agent tooling
// can measure, and reuse, the cheaper context.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server hosts the comparison tools for one project root.
type Server struct {
	root    string
	version string
}

// NewServer creates an MCP server rooted at the given project directory.
func NewServer(root, version string) *Server {
	return &Server{root: root, version: version}
}

// Serve registers the tools and blocks serving MCP over stdin/stdout.
func (s *Server) Serve() error {
	srv := server.NewMCPServer("ctxbench", s.version,
		server.WithToolCapabilities(false),
	)

	srv.AddTool(mcp.NewTool("compare_context",
		mcp.WithDescription("Run the retrieval-vs-whole-file context benchmark for a query and return the token cost report."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural-language question about the codebase"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("How many chunks the retrieval strategy asks for (default from config)"),
		),
		mcp.WithString("counter",
			mcp.Description("Cost counter: words, chars, or tiktoken (default from config)"),
		),
	), s.handleCompareContext)

	srv.AddTool(mcp.NewTool("build_context",
		mcp.WithDescription("Assemble the context one strategy would produce for a query and return it verbatim, ready to use in a prompt."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural-language question about the codebase"),
		),
		mcp.WithString("strategy",
			mcp.Description("Which strategy to build: rag or naive (default rag)"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("How many chunks the retrieval strategy asks for (default from config)"),
		),
	), s.handleBuildContext)

	return server.ServeStdio(srv)
}
