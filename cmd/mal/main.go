package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	mal "github.com/samsvp/mal"
)

const version = "1.0.0"

var (
	configPath string
	cfg        mal.Config
)

func main() {
	root := &cobra.Command{
		Use:   "mal [file] [args...]",
		Short: "A small Lisp interpreter",
		Long: `mal reads, evaluates and prints Lisp forms.

With no arguments it starts an interactive REPL, or reads lines from stdin
when stdin is not a terminal. With a file argument it runs the file.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = mal.LoadConfig(configPath)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runFile(args[0], args[1:])
			}
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return runREPL()
			}
			return runPiped(os.Stdin, os.Stdout)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "~/.config/mal/config.yaml", "path to the YAML config file")
	root.Version = version

	root.AddCommand(runCmd(), serveCmd(), clientCmd(), mcpCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
