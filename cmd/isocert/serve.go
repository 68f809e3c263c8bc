package main

import (
	"fmt"
	"os/signal"
	"syscall"
)

// Run executes the serve command until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Server.Addr
	}

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps.Logger.Info("starting server",
		"addr", addr,
		"platform", deps.Config.Platform,
		"timeout", deps.Config.Search.Timeout,
	)
	if err := deps.Server.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
