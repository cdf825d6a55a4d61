// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"todosync/internal/config"
	"todosync/internal/operations"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command talks to the backend.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, settings).
	// ops always wraps a fresh store. It is backed by the configured
	// backend only if NeedsAuth() returns true; otherwise it must not be
	// used to call the backend.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, ops *operations.Runner, args []string, out, errOut io.Writer) int
}
