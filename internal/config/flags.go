package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// newFlagSet registers all flags against cfg.
func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("trader-wrapper", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprintf(w, `trader-wrapper - supervise the forex websocket trader, with a fallback status server

Usage:
  trader-wrapper [flags]

Executable Discovery:
`)
		printFlagCategory(w, fs, []string{"dir", "exe-name"})

		fmt.Fprintf(w, "\nObservability:\n")
		printFlagCategory(w, fs, []string{"log-format", "log-level", "v", "metrics", "banner"})

		fmt.Fprintf(w, `
Environment:
  PORT    Port for the trader and the fallback server (default 10000)

`)
	}

	// Executable discovery
	fs.StringVar(&cfg.InstallDir, "dir", cfg.InstallDir, "Directory to search for the trader (default: wrapper's own directory)")
	fs.StringVar(&cfg.ExecutableName, "exe-name", cfg.ExecutableName, "Trader executable name")

	// Observability
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "text" or "json"`)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, `Log level: "debug", "info", "warn", "error"`)
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus metrics address (empty = disabled)")
	fs.BoolVar(&cfg.Banner, "banner", cfg.Banner, "Print startup banner")

	return fs
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(w io.Writer, fs *flag.FlagSet, names []string) {
	fs.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(w, "  -%s %s\n    \t%s", f.Name, flagType(f), f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
					fmt.Fprintf(w, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(w)
				return
			}
		}
	})
}

// flagType returns a type hint for the flag value.
func flagType(f *flag.Flag) string {
	switch f.DefValue {
	case "true", "false":
		return ""
	}

	if _, err := fmt.Sscanf(f.DefValue, "%d", new(int)); err == nil {
		return "int"
	}

	return "string"
}

// IsVersionArg reports whether the first argument asks for the version.
// It is checked before flag parsing so that "version" works as a bare word.
func IsVersionArg(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch strings.TrimLeft(args[0], "-") {
	case "version":
		return true
	}
	return false
}
