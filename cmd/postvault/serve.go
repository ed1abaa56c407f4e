package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	pvgin "github.com/koomastudio/postvault/gin"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := deps.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	server := pvgin.NewServer(c.Debug)
	server.Addr = addr
	server.Logger = deps.Logger
	server.Ingest = deps.Ingest
	server.TokenService = deps.Tokens
	server.SavedPostService = deps.SavedPosts
	server.CollectionService = deps.Collections

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// The signal context is done; shut down on a fresh one.
	if err := server.Shutdown(context.Background()); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "Server stopped")
	return nil
}
