package supervisor

import (
	"errors"
	"fmt"
	"io/fs"
)

// LaunchKind classifies why the trader could not be started.
type LaunchKind string

const (
	// LaunchMissing means the executable path did not exist at spawn time.
	LaunchMissing LaunchKind = "missing"

	// LaunchNotExecutable means the file exists but cannot be executed.
	LaunchNotExecutable LaunchKind = "not_executable"

	// LaunchOther covers every other spawn-time failure.
	LaunchOther LaunchKind = "other"
)

// LaunchError is returned by Supervisor.Run when the process never started.
type LaunchError struct {
	Kind LaunchKind
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// newLaunchError classifies err from building or starting the command.
func newLaunchError(path string, err error) *LaunchError {
	return &LaunchError{Kind: classifyLaunch(err), Path: path, Err: err}
}

func classifyLaunch(err error) LaunchKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return LaunchMissing
	case errors.Is(err, fs.ErrPermission), isExecFormatError(err):
		return LaunchNotExecutable
	default:
		return LaunchOther
	}
}

// AsLaunchError reports whether err is a *LaunchError and returns it.
func AsLaunchError(err error) (*LaunchError, bool) {
	var le *LaunchError
	ok := errors.As(err, &le)
	return le, ok
}

// isClosedPipe reports read errors that mean the pipe was closed under us.
func isClosedPipe(err error) bool {
	return errors.Is(err, fs.ErrClosed)
}
