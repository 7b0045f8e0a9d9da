// Package process provides abstractions for running external processes.
package process

import (
	"context"
	"os/exec"
)

// Runner creates executable commands for the supervised workload.
// This interface allows the supervisor to be process-agnostic: it only needs
// something that accepts an environment, produces a byte stream, and exits.
type Runner interface {
	// BuildCommand returns a ready-to-start command.
	// The command should NOT be started yet.
	BuildCommand(ctx context.Context) (*exec.Cmd, error)

	// Name returns a human-readable name for this process type.
	Name() string

	// Path returns the executable path the command will run.
	Path() string
}
