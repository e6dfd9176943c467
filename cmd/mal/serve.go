package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mal "github.com/samsvp/mal"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve a session on a unix socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg.Socket)
		},
	}
}

func serve(sockPath string) error {
	// Stale socket from a previous run.
	os.Remove(sockPath)

	l, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("listen %s: %w", sockPath, err)
	}

	session := mal.NewSession(cfg.Factory(), cfg.MaxTraces)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("shutting down...")
		l.Close()
	}()

	log.Printf("mal session listening on %s", sockPath)
	err = session.Serve(l)
	session.Close()
	os.Remove(sockPath)
	return err
}
