//go:build !windows

package supervisor

import (
	"errors"
	"os"
	"syscall"
)

// makeExecutable sets mode 0755 on path so a freshly unpacked build
// artifact can be run.
func makeExecutable(path string) error {
	return os.Chmod(path, 0o755)
}

func isExecFormatError(err error) bool {
	return errors.Is(err, syscall.ENOEXEC)
}
