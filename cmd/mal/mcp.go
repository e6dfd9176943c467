package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mal "github.com/samsvp/mal"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve an in-process session over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so printing natives go to stderr.
			session := mal.NewSession(cfg.Factory(mal.WithOutput(os.Stderr)), cfg.MaxTraces)
			defer session.Close()
			return serveMCP(session)
		},
	}
}

// mcpTools binds MCP tool handlers to one session.
type mcpTools struct {
	session *mal.Session
}

// formatResult turns a session response into an MCP tool result.
func formatResult(resp mal.Response) (*mcp.CallToolResult, error) {
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return mcp.NewToolResultError(msg), nil
	}
	if s, ok := resp.Value.(string); ok {
		return mcp.NewToolResultText(s), nil
	}
	out, err := json.MarshalIndent(resp.Value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (t *mcpTools) handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(t.session.Do(mal.Request{ID: mal.NextID(), Op: "eval", Expr: expr}))
}

func (t *mcpTools) handleSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return formatResult(t.session.Do(mal.Request{ID: mal.NextID(), Op: "symbols"}))
}

func (t *mcpTools) handleTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := request.GetInt("n", 0)
	return formatResult(t.session.Do(mal.Request{ID: mal.NextID(), Op: "traces", N: n}))
}

func (t *mcpTools) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return formatResult(t.session.Do(mal.Request{ID: mal.NextID(), Op: "reset"}))
}

func newMCPServer(session *mal.Session) *server.MCPServer {
	t := &mcpTools{session: session}

	s := server.NewMCPServer(
		"mal",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("mal_eval",
			mcp.WithDescription("Read and evaluate one mal form in the session. Returns the printed result."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Form to evaluate, e.g. (+ 1 2)"),
			),
		),
		t.handleEval,
	)

	s.AddTool(
		mcp.NewTool("mal_symbols",
			mcp.WithDescription("List the names bound in the session's root environment."),
		),
		t.handleSymbols,
	)

	s.AddTool(
		mcp.NewTool("mal_traces",
			mcp.WithDescription("Return recent evaluation traces, oldest first."),
			mcp.WithNumber("n",
				mcp.Description("Number of traces to return; all when omitted"),
			),
		),
		t.handleTraces,
	)

	s.AddTool(
		mcp.NewTool("mal_reset",
			mcp.WithDescription("Replace the session's interpreter with a fresh one and drop all traces."),
		),
		t.handleReset,
	)

	return s
}

func serveMCP(session *mal.Session) error {
	log.Printf("mal mcp server on stdio")
	if err := server.ServeStdio(newMCPServer(session)); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
