// Package preflight reports what the wrapper found on disk before it decides
// whether to supervise the trader or fall back.
package preflight

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/randomizedcoder/trader-wrapper/internal/locator"
)

// Check represents the result of a single preflight check.
type Check struct {
	Name    string // Name of the check
	Passed  bool   // Whether the check passed
	Warning bool   // True if it's a warning (non-fatal)
	Message string // Additional context
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
	} else if c.Warning {
		status = "⚠"
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// RunAll builds the report for a locator result. Passed mirrors
// located.Found; the per-candidate lines are informational.
func RunAll(located locator.Result, installDir string) *Result {
	result := &Result{
		Checks: make([]Check, 0, len(located.Candidates)+1),
		Passed: located.Found,
	}

	for _, c := range located.Candidates {
		result.Checks = append(result.Checks, checkCandidate(c))
	}

	if located.Found {
		if runtime.GOOS != "windows" {
			result.Checks = append(result.Checks, checkMode(located.Path))
		}
	} else {
		result.Checks = append(result.Checks, checkInstallDir(installDir))
	}

	return result
}

func checkCandidate(c locator.Candidate) Check {
	msg := c.Path + " (missing)"
	if c.Exists {
		msg = c.Path + " (exists)"
	}
	return Check{
		Name:    "candidate",
		Passed:  c.Exists,
		Message: msg,
	}
}

// checkMode warns when the located binary lacks execute bits. The supervisor
// fixes that itself, so it never fails.
func checkMode(path string) Check {
	info, err := os.Stat(path)
	if err != nil {
		return Check{
			Name:    "executable_mode",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("unable to stat %s: %v", path, err),
		}
	}

	mode := info.Mode().Perm()
	if mode&0o111 == 0 {
		return Check{
			Name:    "executable_mode",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("%04o, will chmod 0755", mode),
		}
	}
	return Check{
		Name:    "executable_mode",
		Passed:  true,
		Message: fmt.Sprintf("%04o", mode),
	}
}

// checkInstallDir lists the install directory so an operator can see what
// the deployment actually shipped.
func checkInstallDir(dir string) Check {
	names, err := locator.ListDir(dir)
	if err != nil {
		return Check{
			Name:    "install_dir",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("unable to list %s: %v", dir, err),
		}
	}

	listing := "(empty)"
	if len(names) > 0 {
		listing = strings.Join(names, ", ")
	}
	return Check{
		Name:    "install_dir",
		Passed:  true,
		Message: fmt.Sprintf("%s contains %d entries: %s", dir, len(names), listing),
	}
}

// PrintResults writes the preflight report to w.
func PrintResults(w io.Writer, result *Result) {
	fmt.Fprintln(w, "Executable search:")
	for _, check := range result.Checks {
		fmt.Fprintln(w, check.String())
	}
	if !result.Passed {
		fmt.Fprintf(w, "    Fix: %s\n", suggestFix("executable"))
	}
	fmt.Fprintln(w)
}

// suggestFix returns a suggestion for fixing a failed check.
func suggestFix(name string) string {
	switch name {
	case "executable":
		return "run `cargo build --release` or ship the trader binary next to the wrapper"
	default:
		return "see documentation"
	}
}
