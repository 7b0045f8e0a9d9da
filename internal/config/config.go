// Package config provides configuration management for trader-wrapper.
//
// The configuration is built once at startup from the command line, a
// snapshot of the process environment, and the wrapper's own location.
// Components receive values from Config and never consult the ambient
// process state themselves.
package config

import (
	"path/filepath"

	"github.com/randomizedcoder/trader-wrapper/internal/environment"
	"github.com/randomizedcoder/trader-wrapper/internal/locator"
)

// Config holds all configuration options for the wrapper.
type Config struct {
	// Executable discovery
	InstallDir     string   `json:"install_dir"`
	ExecutableName string   `json:"executable_name"`
	Candidates     []string `json:"candidates"`

	// Environment snapshot taken at startup, and the port resolved from it
	Env  map[string]string `json:"-"`
	Port string            `json:"port"`

	// Observability
	MetricsAddr string `json:"metrics_addr"` // empty = disabled
	LogFormat   string `json:"log_format"`   // text, json
	LogLevel    string `json:"log_level"`
	Verbose     bool   `json:"verbose"`
	Banner      bool   `json:"banner"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ExecutableName: locator.DefaultExecutableName,
		Port:           environment.DefaultPort,
		Env:            map[string]string{},
		LogFormat:      "text",
		LogLevel:       "info",
		Banner:         true,
	}
}

// Load builds the Config from command-line args (without the program name),
// the process environment as KEY=VALUE pairs, and the path of the running
// wrapper binary.
func Load(args, environ []string, selfPath string) (*Config, error) {
	cfg := DefaultConfig()

	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.InstallDir == "" {
		cfg.InstallDir = filepath.Dir(selfPath)
	}
	if abs, err := filepath.Abs(cfg.InstallDir); err == nil {
		cfg.InstallDir = abs
	}
	cfg.Env = environment.FromEnviron(environ)
	cfg.Port = environment.ResolvePort(cfg.Env)
	cfg.Candidates = locator.Candidates(cfg.InstallDir, cfg.ExecutableName)

	return cfg, nil
}

// ListenAddr returns the fallback server's bind address on all interfaces.
func (c *Config) ListenAddr() string {
	return "0.0.0.0:" + c.Port
}
