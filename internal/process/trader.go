package process

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/randomizedcoder/trader-wrapper/internal/environment"
)

// TraderConfig holds configuration for the trader process.
type TraderConfig struct {
	// BinaryPath is the located trader executable.
	BinaryPath string

	// Env is the complete child environment, overrides already applied.
	Env map[string]string
}

// TraderRunner builds commands for the websocket trader. The trader takes no
// arguments; everything it needs arrives through the environment.
type TraderRunner struct {
	config *TraderConfig
}

// NewTraderRunner creates a runner for the given configuration.
func NewTraderRunner(cfg *TraderConfig) *TraderRunner {
	return &TraderRunner{config: cfg}
}

// Name implements Runner.
func (r *TraderRunner) Name() string {
	return "websocket-trader"
}

// Path implements Runner.
func (r *TraderRunner) Path() string {
	return r.config.BinaryPath
}

// BuildCommand implements Runner.
func (r *TraderRunner) BuildCommand(ctx context.Context) (*exec.Cmd, error) {
	if r.config.BinaryPath == "" {
		return nil, errors.New("trader binary path is empty")
	}
	path := r.config.BinaryPath
	// A bare name would be resolved through PATH; the located file is
	// always meant literally.
	if filepath.Base(path) == path {
		path = "." + string(filepath.Separator) + path
	}
	cmd := exec.CommandContext(ctx, path)
	cmd.Env = environment.ToEnviron(r.config.Env)
	return cmd, nil
}


// CommandString returns a shell-like rendering of the command with the
// wrapper-controlled variables, for debug logging.
func (r *TraderRunner) CommandString() string {
	var b strings.Builder
	for _, k := range []string{environment.PortKey, environment.LogLevelKey, environment.ModeKey} {
		if v, ok := r.config.Env[k]; ok {
			b.WriteString(k + "=" + v + " ")
		}
	}
	b.WriteString(r.config.BinaryPath)
	return b.String()
}

var _ Runner = (*TraderRunner)(nil)
