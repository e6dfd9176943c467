package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mal "github.com/samsvp/mal"
)

func clientCmd() *cobra.Command {
	var op string
	var n int
	cmd := &cobra.Command{
		Use:   "client [expr]",
		Short: "Send one request to a running session and print the response",
		Long: `client sends an eval request for expr (or stdin when expr is omitted)
to the session socket and prints the JSON response. --op selects another
operation: symbols, traces, reset, or "" for the manual.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := mal.Request{ID: mal.NextID(), Op: op, N: n}
			if op == "eval" {
				expr := strings.Join(args, " ")
				if expr == "" {
					data, err := io.ReadAll(os.Stdin)
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
					expr = string(data)
				}
				req.Expr = expr
			}
			resp, err := send(cfg.Socket, req)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("format response: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&op, "op", "eval", "operation to send")
	cmd.Flags().IntVarP(&n, "n", "n", 0, "number of traces for the traces op")
	return cmd
}

func send(sockPath string, req mal.Request) (mal.Response, error) {
	var resp mal.Response
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return resp, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if err := mal.WriteMsg(conn, req); err != nil {
		return resp, fmt.Errorf("send: %w", err)
	}
	if err := mal.ReadMsg(conn, &resp); err != nil {
		return resp, fmt.Errorf("receive: %w", err)
	}
	return resp, nil
}
