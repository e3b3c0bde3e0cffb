package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"usergrip/internal/cli"
)

func main() {
	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.LogError(rootCmd, err)
		cancel()
		os.Exit(1)
	}
}
