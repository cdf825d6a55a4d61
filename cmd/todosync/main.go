// Package main is the entry point for the todosync CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todosync/internal/cli"
	"todosync/internal/commands"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.DefaultServiceFactory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
