//go:build windows

package supervisor

// makeExecutable is a no-op on Windows; executability comes from the
// file extension.
func makeExecutable(path string) error {
	return nil
}

func isExecFormatError(err error) bool {
	return false
}
