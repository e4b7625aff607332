// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty text, unknown task number).
	UserError = 1

	// ConfigError indicates an auth or configuration error.
	ConfigError = 2

	// BackendError indicates a task store or network error.
	BackendError = 3
)
