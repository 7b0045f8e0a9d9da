// Package shutdown terminates the wrapper on SIGINT or SIGTERM.
//
// The wrapper does not forward the signal to the trader. When the platform
// stops the container it signals the whole process group, and a bare exit is
// what the platform expects from the wrapper itself.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// ExitCode is the status the wrapper exits with after a signal.
const ExitCode = 0

// Notify subscribes to SIGINT and SIGTERM. Call stop to unsubscribe.
func Notify() (signals <-chan os.Signal, stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

// Handler waits for a termination signal and exits the process.
type Handler struct {
	signals <-chan os.Signal
	exit    func(int)
	logger  *slog.Logger
}

// New creates a Handler. exit is normally os.Exit.
func New(signals <-chan os.Signal, exit func(int), logger *slog.Logger) *Handler {
	if exit == nil {
		exit = os.Exit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		signals: signals,
		exit:    exit,
		logger:  logger,
	}
}

// Wait blocks until a signal arrives or ctx is done. On a signal it logs and
// calls exit(0); it returns only when ctx ends first or the channel closes.
func (h *Handler) Wait(ctx context.Context) {
	select {
	case sig, ok := <-h.signals:
		if !ok {
			return
		}
		h.logger.Info("received_signal",
			"signal", sig.String(),
			"number", signalNumber(sig),
			"action", "shutting down gracefully",
		)
		h.exit(ExitCode)
	case <-ctx.Done():
	}
}

// signalNumber returns the numeric value of sig, or -1 when it has none.
func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return -1
}
