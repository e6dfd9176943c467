package mal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the REPL, the session server and the
// MCP bridge.
type Config struct {
	Prompt      string   `yaml:"prompt"`
	HistoryFile string   `yaml:"history_file"`
	Socket      string   `yaml:"socket"`
	MaxTraces   int      `yaml:"max_traces"`
	Prelude     []string `yaml:"prelude"`
	DebugEval   bool     `yaml:"debug_eval"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Prompt:      "user> ",
		HistoryFile: "~/.mal_history",
		Socket:      "/tmp/mal.sock",
		MaxTraces:   DefaultMaxTraces,
	}
}

// LoadConfig reads a YAML config from path on top of the defaults. An empty
// path or a missing file yields the defaults. MAL_SOCK and MAL_HISTORY
// override the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(expandHome(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if v := os.Getenv("MAL_SOCK"); v != "" {
		cfg.Socket = v
	}
	if v := os.Getenv("MAL_HISTORY"); v != "" {
		cfg.HistoryFile = v
	}

	cfg.HistoryFile = expandHome(cfg.HistoryFile)
	cfg.Socket = expandHome(cfg.Socket)
	for i, p := range cfg.Prelude {
		cfg.Prelude[i] = expandHome(p)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "user> "
	}
	if cfg.MaxTraces <= 0 {
		cfg.MaxTraces = DefaultMaxTraces
	}
	return cfg, nil
}

// Factory returns an interpreter factory that applies the config: it turns
// on DEBUG-EVAL when asked and loads every prelude file. Prelude failures
// are reported through the interpreter's logger.
func (c Config) Factory(base ...Option) Factory {
	return func(opts ...Option) *Interp {
		in := New(append(append([]Option{}, base...), opts...)...)
		if c.DebugEval {
			in.Define(debugEvalSymbol, BoolVal(true))
		}
		for _, p := range c.Prelude {
			if v := in.LoadFile(p); v.IsError() && in.ev.Log != nil {
				in.ev.Log.Printf("prelude %s: %s", p, v.Str)
			}
		}
		return in
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
