package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	mal "github.com/samsvp/mal"
)

// errFailed reports a failed program whose error was already printed.
var errFailed = errors.New("program failed")

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE [args...]",
		Short: "Evaluate a file with *ARGV* bound to the remaining arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], args[1:])
		},
	}
}

func runFile(path string, args []string) error {
	in := cfg.Factory()()
	in.SetArgs(args)
	if v := in.LoadFile(path); v.IsError() {
		fmt.Fprintln(errOut, mal.PrStr(v, true))
		return errFailed
	}
	return nil
}
