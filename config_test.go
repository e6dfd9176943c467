package mal

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MAL_SOCK", "")
	t.Setenv("MAL_HISTORY", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "user> " || cfg.Socket != "/tmp/mal.sock" || cfg.MaxTraces != DefaultMaxTraces {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HistoryFile != filepath.Join(home, ".mal_history") {
		t.Fatalf("expected history in home, got %q", cfg.HistoryFile)
	}

	// A missing file is not an error.
	if _, err := LoadConfig(filepath.Join(home, "nope.yaml")); err != nil {
		t.Fatalf("missing config should fall back to defaults, got %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("MAL_SOCK", "")
	t.Setenv("MAL_HISTORY", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.yaml")
	data := `
prompt: "mal> "
socket: ~/mal.sock
max_traces: 5
prelude:
  - ~/lib.mal
debug_eval: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "mal> " || cfg.MaxTraces != 5 || !cfg.DebugEval {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Socket != filepath.Join(home, "mal.sock") {
		t.Fatalf("expected expanded socket, got %q", cfg.Socket)
	}
	if len(cfg.Prelude) != 1 || cfg.Prelude[0] != filepath.Join(home, "lib.mal") {
		t.Fatalf("expected expanded prelude, got %v", cfg.Prelude)
	}
	// Unset keys keep their defaults.
	if cfg.HistoryFile != filepath.Join(home, ".mal_history") {
		t.Fatalf("expected default history, got %q", cfg.HistoryFile)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MAL_SOCK", "/run/custom.sock")
	t.Setenv("MAL_HISTORY", "/tmp/custom_history")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Socket != "/run/custom.sock" || cfg.HistoryFile != "/tmp/custom_history" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_traces: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfigFactory(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "lib.mal")
	if err := os.WriteFile(lib, []byte("(def! sq (fn* (x) (* x x)))"), 0o644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Prelude = []string{lib, filepath.Join(t.TempDir(), "missing.mal")}
	cfg.DebugEval = true

	in := cfg.Factory(WithLogger(log.New(&logs, "", 0)))()
	if got := in.Rep("(sq 4)"); got != "16" {
		t.Fatalf("expected prelude function, got %q", got)
	}
	if !strings.Contains(logs.String(), "EVAL: (sq 4)") {
		t.Fatalf("expected debug trace, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "missing.mal") {
		t.Fatalf("expected missing prelude to be logged, got %q", logs.String())
	}
}
