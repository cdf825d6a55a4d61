// Package cli parses the command line and runs commands against a fresh
// store.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"

	"todosync/internal/backend/googletasks"
	"todosync/internal/backend/httpapi"
	"todosync/internal/commands"
	"todosync/internal/config"
	"todosync/internal/exitcode"
	"todosync/internal/log"
	"todosync/internal/operations"
	"todosync/internal/service"
	"todosync/internal/store"
)

// ErrNotLoggedIn is returned by the default factory when the configured
// backend has no credentials.
var ErrNotLoggedIn = errors.New("not logged in (run: todosync login)")

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error)

// DefaultServiceFactory builds the backend named in the settings.
func DefaultServiceFactory(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error) {
	if !cfg.HasCredentials() {
		if cfg.Settings.Backend == config.BackendGoogle && !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("oauth_client.json not found in %s: %w", cfg.Dir, ErrNotLoggedIn)
		}
		return nil, ErrNotLoggedIn
	}

	switch cfg.Settings.Backend {
	case config.BackendGoogle:
		return googletasks.New(ctx, cfg)
	default:
		creds, err := cfg.LoadCredentials()
		if err != nil {
			return nil, fmt.Errorf("auth: %w", err)
		}
		return httpapi.New(ctx, httpapi.Options{
			BaseURL: cfg.Settings.BaseURL,
			APIKey:  creds.APIKey,
			Token:   creds.Token,
			Timeout: cfg.Settings.Timeout,
			Logger:  logger,
		})
	}
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and
// service factory. A nil factory uses DefaultServiceFactory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = DefaultServiceFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	// A leftover dash argument should have been parsed as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	level := log.LevelFromString(cfg.Settings.LogLevel)
	if debug {
		level = log.LevelDebug
	}
	logger := log.New(errOut, level).With("cmd", cmd.Name())
	ctx = log.WithLogger(ctx, logger)

	var svc service.Service
	if cmd.NeedsAuth() {
		svc, err = d.factory(ctx, cfg, logger)
		if err != nil {
			if isAuthError(err) {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	st := store.New(logger)
	if debug {
		unsubscribe := st.Subscribe(traceStatus(logger))
		defer unsubscribe()
	}
	ops := operations.NewRunner(st, svc, logger)

	return cmd.Run(ctx, cfg, ops, positionalArgs, out, errOut)
}

// flagErrorMessage turns a flag package error into the CLI's wording.
func flagErrorMessage(err error) string {
	errStr := err.Error()
	switch {
	case strings.HasPrefix(errStr, "flag needs an argument:"):
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
	case strings.HasPrefix(errStr, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
	default:
		return errStr
	}
}

func isAuthError(err error) bool {
	if errors.Is(err, ErrNotLoggedIn) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "token") || strings.Contains(msg, "auth")
}

// traceStatus logs every change of the global request status. Listeners
// run on the dispatching goroutine, so the last status is guarded.
func traceStatus(logger log.Logger) store.Listener {
	var (
		mu   sync.Mutex
		last store.RequestStatus
	)
	return func(state store.RootState) {
		status := store.SelectAppStatus(state)
		mu.Lock()
		changed := status != last
		last = status
		mu.Unlock()
		if !changed {
			return
		}
		if status == store.StatusFailed {
			logger.Debug("sync status changed", "status", status, "error", store.SelectAppError(state))
			return
		}
		logger.Debug("sync status changed", "status", status)
	}
}
