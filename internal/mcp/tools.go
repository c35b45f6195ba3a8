package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctxbench/ctxbench/internal/bench"
	"github.com/ctxbench/ctxbench/internal/config"
	"github.com/ctxbench/ctxbench/internal/search"
	"github.com/ctxbench/ctxbench/internal/strategy"
	"github.com/ctxbench/ctxbench/internal/tokens"
)

func (s *Server) handleCompareContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	topK := req.GetInt("top_k", 0)
	counterName := req.GetString("counter", "")

	comp, err := s.buildComparator(topK, counterName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report := comp.Run(ctx, query)

	renderer, _ := bench.RendererFor("text")
	out, err := renderer.Render(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render report: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleBuildContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	name := req.GetString("strategy", "rag")
	topK := req.GetInt("top_k", 0)

	comp, err := s.buildComparator(topK, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var strat strategy.ContextStrategy
	switch name {
	case "rag":
		strat = comp.RAG
	case "naive":
		strat = comp.Naive
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown strategy %q (valid: rag, naive)", name)), nil
	}

	res := strat.BuildContext(ctx, query)
	if res.Text == "" {
		var sb strings.Builder
		sb.WriteString("No context could be assembled.")
		for _, e := range res.Errors {
			sb.WriteString("\n- ")
			sb.WriteString(e.Error())
		}
		return mcp.NewToolResultError(sb.String()), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

// buildComparator assembles both strategies from the project's effective
// config, with tool parameters overriding where provided.
func (s *Server) buildComparator(topK int, counterName string) (*bench.Comparator, error) {
	global, project, _ := config.Load(s.root)

	if counterName == "" {
		counterName = global.Counter
	}
	counter, err := tokens.New(counterName)
	if err != nil {
		return nil, err
	}

	if topK <= 0 {
		topK = global.Search.TopK
	}

	provider := &search.ExecProvider{
		Command: global.Search.Command,
		Dir:     s.root,
		Timeout: time.Duration(global.Search.TimeoutSeconds) * time.Second,
	}

	groups := make([]strategy.KeywordGroup, 0, len(project.Naive.Groups))
	for _, g := range project.Naive.Groups {
		groups = append(groups, strategy.KeywordGroup{Keywords: g.Keywords, Files: g.Files})
	}

	return &bench.Comparator{
		RAG: &strategy.Retrieval{Provider: provider, Counter: counter, TopK: topK},
		Naive: &strategy.Naive{
			Root:    s.root,
			Groups:  groups,
			Default: project.Naive.DefaultFiles,
			Counter: counter,
		},
		CounterName: counter.Name(),
		Root:        s.root,
	}, nil
}
