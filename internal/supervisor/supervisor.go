package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/randomizedcoder/trader-wrapper/internal/environment"
	"github.com/randomizedcoder/trader-wrapper/internal/process"
	"github.com/randomizedcoder/trader-wrapper/internal/stats"
)

// Callbacks contains optional callback functions for supervisor events.
type Callbacks struct {
	// OnStateChange is called when the supervisor state changes.
	OnStateChange func(oldState, newState State)

	// OnStart is called when the process starts.
	OnStart func(pid int)

	// OnLine is called for every relayed line with its trimmed length.
	OnLine func(n int)

	// OnExit is called when the process exits.
	OnExit func(exitCode int, uptime time.Duration)
}

// Config holds configuration for creating a new Supervisor.
type Config struct {
	Runner    process.Runner
	Logger    *slog.Logger
	Output    io.Writer // relay destination; defaults to os.Stdout
	Stats     *stats.RelayStats
	Callbacks Callbacks
}

// Outcome describes a completed run of the supervised process.
type Outcome struct {
	PID      int
	ExitCode int
	Uptime   time.Duration
	Relay    stats.RelaySnapshot

	// RelayErr is the first error writing relayed output, if any.
	RelayErr error
}

// Supervisor launches one process, relays its combined output, and waits for
// it to exit. It holds at most one process and never restarts it.
type Supervisor struct {
	runner    process.Runner
	logger    *slog.Logger
	output    io.Writer
	stats     *stats.RelayStats
	callbacks Callbacks

	state   State
	stateMu sync.RWMutex
}

// New creates a new Supervisor with the given configuration.
func New(cfg Config) *Supervisor {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	relayStats := cfg.Stats
	if relayStats == nil {
		relayStats = stats.NewRelayStats()
	}
	return &Supervisor{
		runner:    cfg.Runner,
		logger:    cfg.Logger,
		output:    output,
		stats:     relayStats,
		callbacks: cfg.Callbacks,
		state:     StateCreated,
	}
}

// Run launches the process and relays its output until the output stream
// closes, then waits for the process to exit.
//
// If the process cannot be started, Run returns a *LaunchError and the
// process never ran. Run does not retry.
func (s *Supervisor) Run(ctx context.Context) (Outcome, error) {
	path := s.runner.Path()
	s.setState(StateStarting)

	if err := makeExecutable(path); err != nil {
		s.logger.Warn("chmod_failed", "path", path, "error", err)
	} else {
		s.logger.Debug("chmod_ok", "path", path, "mode", "0755")
	}

	cmd, err := s.runner.BuildCommand(ctx)
	if err != nil {
		return s.fail(newLaunchError(path, err))
	}

	// Merge stdout and stderr into one pipe; the child inherits the write end.
	pr, pw, err := os.Pipe()
	if err != nil {
		return s.fail(newLaunchError(path, err))
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return s.fail(newLaunchError(path, err))
	}

	// Close the parent's write end so EOF arrives when the child exits.
	pw.Close()

	pid := cmd.Process.Pid
	s.setState(StateRunning)
	s.logger.Info("trader_started",
		"pid", pid,
		"path", path,
		"port", envValue(cmd.Env, environment.PortKey),
		"mode", envValue(cmd.Env, environment.ModeKey),
		"log_level", envValue(cmd.Env, environment.LogLevelKey),
	)
	if s.callbacks.OnStart != nil {
		s.callbacks.OnStart(pid)
	}

	_, relayErr := Relay(pr, s.output, s.onLine)
	pr.Close()
	if relayErr != nil {
		s.logger.Warn("relay_write_failed", "pid", pid, "error", relayErr)
	}

	waitErr := cmd.Wait()
	uptime := time.Since(startTime)
	exitCode := extractExitCode(waitErr)

	s.setState(StateExited)
	s.logger.Info("trader_exited",
		"pid", pid,
		"exit_code", exitCode,
		"uptime", uptime.String(),
		"lines_relayed", s.stats.Lines(),
	)
	if s.callbacks.OnExit != nil {
		s.callbacks.OnExit(exitCode, uptime)
	}

	return Outcome{
		PID:      pid,
		ExitCode: exitCode,
		Uptime:   uptime,
		Relay:    s.stats.Snapshot(),
		RelayErr: relayErr,
	}, nil
}

func (s *Supervisor) fail(err *LaunchError) (Outcome, error) {
	s.setState(StateFailed)
	s.logger.Error("trader_launch_failed",
		"path", err.Path,
		"kind", string(err.Kind),
		"error", err.Err,
	)
	return Outcome{}, err
}

func (s *Supervisor) onLine(n int) {
	s.stats.RecordLine(n, time.Now())
	if s.callbacks.OnLine != nil {
		s.callbacks.OnLine(n)
	}
}

// State returns the current state of the supervisor.
func (s *Supervisor) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// setState updates the state and calls the callback if registered.
func (s *Supervisor) setState(newState State) {
	s.stateMu.Lock()
	oldState := s.state
	s.state = newState
	s.stateMu.Unlock()

	if s.callbacks.OnStateChange != nil && oldState != newState {
		s.callbacks.OnStateChange(oldState, newState)
	}
}

// envValue returns the last value for key in a KEY=VALUE slice.
func envValue(env []string, key string) string {
	prefix := key + "="
	value := ""
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			value = kv[len(prefix):]
		}
	}
	return value
}

// extractExitCode extracts the exit code from a Wait() error.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				// Signal exit: 128 + signal number
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}

	// Unknown error, assume exit code 1
	return 1
}
