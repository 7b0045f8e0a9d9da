// Package locator finds the trader executable among a fixed, ordered list of
// candidate paths.
package locator

import (
	"os"
	"path/filepath"
	"sort"
)

// DefaultExecutableName is the trader binary name produced by the build.
const DefaultExecutableName = "websocket-trader"

// Candidate is one probed path and whether it existed at probe time.
type Candidate struct {
	Path   string
	Exists bool
}

// Result is the outcome of a Locate call.
type Result struct {
	Path       string // first existing candidate; empty when not found
	Found      bool
	Candidates []Candidate // every candidate probed, in order
}

// Candidates returns the search order for name relative to dir: the
// co-located binary before the build-output fallback, and the plain name
// before its .exe variant.
func Candidates(dir, name string) []string {
	release := filepath.Join(dir, "..", "target", "release")
	return []string{
		filepath.Join(dir, name),
		filepath.Join(dir, name+".exe"),
		filepath.Join(release, name),
		filepath.Join(release, name+".exe"),
	}
}

// Locate returns the first existing path in candidates. Every candidate is
// probed, even after a match, so the diagnostic listing is complete.
func Locate(candidates []string) Result {
	result := Result{Candidates: make([]Candidate, 0, len(candidates))}
	for _, path := range candidates {
		exists := exists(path)
		result.Candidates = append(result.Candidates, Candidate{Path: path, Exists: exists})
		if exists && !result.Found {
			result.Path = path
			result.Found = true
		}
	}
	return result
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListDir returns the sorted names of the entries in dir. It is used only for
// operator diagnostics; an unreadable directory yields an error.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
