// Package environment builds the variable set handed to the trader process.
package environment

import (
	"sort"
	"strconv"
	"strings"
)

// Keys and fixed values the wrapper always sets on the child.
const (
	PortKey     = "PORT"
	LogLevelKey = "RUST_LOG"
	ModeKey     = "TRADING_MODE"

	DefaultPort = "10000"
	LogLevel    = "info"
	Mode        = "DEMO"
)

// Build returns a copy of base with the port, log level and trading mode
// overrides applied. Every other key passes through unchanged. It never fails:
// a missing or malformed PORT falls back to DefaultPort.
func Build(base map[string]string) map[string]string {
	env := make(map[string]string, len(base)+3)
	for k, v := range base {
		env[k] = v
	}
	env[PortKey] = ResolvePort(base)
	env[LogLevelKey] = LogLevel
	env[ModeKey] = Mode
	return env
}

// ResolvePort returns the port from base[PORT] when it is a valid TCP port,
// DefaultPort otherwise.
func ResolvePort(base map[string]string) string {
	raw, ok := base[PortKey]
	if !ok {
		return DefaultPort
	}
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return DefaultPort
	}
	return strconv.Itoa(port)
}

// FromEnviron parses KEY=VALUE entries as returned by os.Environ.
// Entries without '=' are skipped; later duplicates win.
func FromEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// ToEnviron flattens env into a sorted KEY=VALUE slice for exec.Cmd.Env.
func ToEnviron(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
