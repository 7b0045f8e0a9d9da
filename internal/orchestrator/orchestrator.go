// Package orchestrator decides how the wrapper runs: supervise the trader
// when it can be found and started, otherwise serve the fallback endpoint.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/trader-wrapper/internal/config"
	"github.com/randomizedcoder/trader-wrapper/internal/environment"
	"github.com/randomizedcoder/trader-wrapper/internal/fallback"
	"github.com/randomizedcoder/trader-wrapper/internal/locator"
	"github.com/randomizedcoder/trader-wrapper/internal/logging"
	"github.com/randomizedcoder/trader-wrapper/internal/metrics"
	"github.com/randomizedcoder/trader-wrapper/internal/preflight"
	"github.com/randomizedcoder/trader-wrapper/internal/process"
	"github.com/randomizedcoder/trader-wrapper/internal/stats"
	"github.com/randomizedcoder/trader-wrapper/internal/supervisor"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitFatal = 1
)

// Options carries the optional dependencies of an Orchestrator.
type Options struct {
	// Metrics records wrapper metrics. Defaults to a collector on a private
	// registry, which is then what the metrics server exposes.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// Version labels the default collector's info metric.
	Version string

	// Output receives relayed trader output, the preflight report, and the
	// exit summary. Defaults to os.Stdout.
	Output io.Writer

	// FallbackAddr overrides the fallback bind address (config ListenAddr).
	FallbackAddr string
}

// Orchestrator coordinates the locator, supervisor, and fallback server.
type Orchestrator struct {
	config *config.Config
	logger *slog.Logger
	out    io.Writer

	metrics       *metrics.Collector
	metricsServer *metrics.Server
	fallbackAddr  string
}

// New creates a new Orchestrator with the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts Options) *Orchestrator {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	collector := opts.Metrics
	gatherer := opts.Gatherer
	if collector == nil {
		registry := prometheus.NewRegistry()
		collector = metrics.NewCollectorWithRegistry(opts.Version, registry)
		gatherer = registry
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	fallbackAddr := opts.FallbackAddr
	if fallbackAddr == "" {
		fallbackAddr = cfg.ListenAddr()
	}

	orch := &Orchestrator{
		config:       cfg,
		logger:       logger,
		out:          out,
		metrics:      collector,
		fallbackAddr: fallbackAddr,
	}
	if cfg.MetricsAddr != "" {
		orch.metricsServer = metrics.NewServer(cfg.MetricsAddr, gatherer, logger)
	}
	return orch
}

// Run locates and supervises the trader, falling back to the status server
// when that is not possible. It returns the process exit code: 0 after the
// trader exits or the fallback server is stopped, 1 if the fallback server
// cannot bind.
func (o *Orchestrator) Run(ctx context.Context) int {
	o.metrics.SetMode(metrics.ModeStarting)

	if o.metricsServer != nil {
		// Metrics are optional; a bind failure here never blocks the trader.
		if err := o.metricsServer.Start(); err != nil {
			o.logger.Warn("metrics_server_failed", "error", err)
			o.metricsServer = nil
		} else {
			defer o.shutdownMetrics()
		}
	}

	located := locator.Locate(o.config.Candidates)
	preflight.PrintResults(o.out, preflight.RunAll(located, o.config.InstallDir))

	if !located.Found {
		o.logger.Error("executable_not_found",
			"name", o.config.ExecutableName,
			"install_dir", o.config.InstallDir,
			"candidates", len(located.Candidates),
		)
		o.metrics.RecordLaunch(metrics.OutcomeNotFound)
		return o.runFallback(ctx, fallback.State{Reason: metrics.OutcomeNotFound})
	}

	o.logger.Info("executable_found", "path", located.Path)

	outcome, err := o.supervise(ctx, located.Path)
	if err != nil {
		kind := supervisor.LaunchOther
		if le, ok := supervisor.AsLaunchError(err); ok {
			kind = le.Kind
		}
		o.metrics.RecordLaunch(string(kind))
		return o.runFallback(ctx, fallback.State{
			Located: kind != supervisor.LaunchMissing,
			Reason:  string(kind),
		})
	}

	o.printExitSummary(located.Path, outcome)
	return ExitOK
}

// supervise runs the trader once and blocks until it exits.
func (o *Orchestrator) supervise(ctx context.Context, path string) (supervisor.Outcome, error) {
	runner := process.NewTraderRunner(&process.TraderConfig{
		BinaryPath: path,
		Env:        environment.Build(o.config.Env),
	})
	o.logger.Debug("trader_command", "command", runner.CommandString())

	sup := supervisor.New(supervisor.Config{
		Runner: runner,
		Logger: o.logger,
		Output: o.out,
		Stats:  stats.NewRelayStats(),
		Callbacks: supervisor.Callbacks{
			OnStart: o.onStart,
			OnLine:  o.metrics.LineRelayed,
			OnExit:  o.metrics.ChildExited,
		},
	})
	return sup.Run(ctx)
}

func (o *Orchestrator) onStart(pid int) {
	o.metrics.RecordLaunch(metrics.OutcomeStarted)
	o.metrics.ChildStarted()
	o.metrics.SetMode(metrics.ModeSupervising)
}

// runFallback serves the fallback endpoint until ctx ends.
func (o *Orchestrator) runFallback(ctx context.Context, st fallback.State) int {
	o.metrics.SetMode(metrics.ModeFallback)
	o.logger.Warn("starting_fallback_server",
		"addr", o.fallbackAddr,
		"reason", st.Reason,
	)

	srv := fallback.New(fallback.Config{
		Addr:    o.fallbackAddr,
		Port:    o.config.Port,
		State:   st,
		Logger:  logging.WithTag(o.logger, logging.TagFallback),
		Metrics: o.metrics,
	})
	if err := srv.ListenAndServe(ctx); err != nil {
		o.logger.Error("fallback_server_failed", "error", err)
		return ExitFatal
	}
	return ExitOK
}

func (o *Orchestrator) shutdownMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.metricsServer.Shutdown(ctx); err != nil {
		o.logger.Warn("metrics_server_shutdown_error", "error", err)
	}
}

// printExitSummary prints a summary of the supervised run.
func (o *Orchestrator) printExitSummary(path string, outcome supervisor.Outcome) {
	summary := stats.RunSummary{
		Path:     path,
		PID:      outcome.PID,
		ExitCode: outcome.ExitCode,
		Uptime:   outcome.Uptime,
		Relay:    outcome.Relay,
	}
	if o.metricsServer != nil {
		summary.MetricsAddr = o.metricsServer.Addr()
	}
	fmt.Fprint(o.out, stats.FormatExitSummary(summary))
}
