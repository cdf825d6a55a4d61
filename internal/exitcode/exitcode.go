// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown list or task,
	// local precondition).
	UserError = 1

	// AuthError indicates missing or rejected credentials.
	AuthError = 2

	// BackendError indicates a failed synchronization (network, API
	// rejection, timeout).
	BackendError = 3
)
