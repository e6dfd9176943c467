package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	mal "github.com/samsvp/mal"
)

func TestRunPiped(t *testing.T) {
	cfg = mal.DefaultConfig()
	var out bytes.Buffer
	input := "(def! x 2)\n\n(prn (* x 21))\n(1 2\n"
	if err := runPiped(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}
	want := "2\n42\nnil\nexpected ')', got EOF\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestRunFile(t *testing.T) {
	cfg = mal.DefaultConfig()
	var stderr bytes.Buffer
	errOut = &stderr
	defer func() { errOut = os.Stderr }()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.mal")
	if err := os.WriteFile(good, []byte("(def! n (count *ARGV*))"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runFile(good, []string{"a", "b"}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	bad := filepath.Join(dir, "bad.mal")
	if err := runFile(bad, nil); err != errFailed {
		t.Fatalf("expected errFailed for a missing file, got %v", err)
	}
	if !strings.Contains(stderr.String(), "slurp") {
		t.Fatalf("expected the error to be printed, got %q", stderr.String())
	}
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestMCPTools(t *testing.T) {
	session := mal.NewSession(nil, 0)
	defer session.Close()
	tools := &mcpTools{session: session}

	if text, isErr := callTool(t, tools.handleEval, map[string]any{"expr": "(+ 40 2)"}); isErr || text != "42" {
		t.Fatalf("eval: got %q (error=%v)", text, isErr)
	}
	if text, isErr := callTool(t, tools.handleEval, map[string]any{"expr": "(/ 1 0)"}); !isErr || text != "/: division by zero" {
		t.Fatalf("eval error: got %q (error=%v)", text, isErr)
	}
	if _, isErr := callTool(t, tools.handleEval, map[string]any{}); !isErr {
		t.Fatal("expected missing expr to be an error")
	}
	if text, _ := callTool(t, tools.handleSymbols, nil); !strings.Contains(text, `"load-file"`) {
		t.Fatalf("symbols: got %q", text)
	}
	if text, _ := callTool(t, tools.handleTraces, map[string]any{"n": 1}); !strings.Contains(text, `"input": "(/ 1 0)"`) {
		t.Fatalf("traces: got %q", text)
	}
	if text, isErr := callTool(t, tools.handleReset, nil); isErr || text != "reset" {
		t.Fatalf("reset: got %q (error=%v)", text, isErr)
	}

	if newMCPServer(session) == nil {
		t.Fatal("expected a server")
	}
}
