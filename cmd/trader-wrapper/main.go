// Package main provides the trader-wrapper CLI entry point.
//
// trader-wrapper locates a pre-built websocket trader, runs it with a fixed
// environment, and relays its output. When the trader is missing or will not
// start, it serves a small fallback status endpoint on the same port so the
// deployment platform's health checks still pass.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/randomizedcoder/trader-wrapper/internal/banner"
	"github.com/randomizedcoder/trader-wrapper/internal/config"
	"github.com/randomizedcoder/trader-wrapper/internal/logging"
	"github.com/randomizedcoder/trader-wrapper/internal/metrics"
	"github.com/randomizedcoder/trader-wrapper/internal/orchestrator"
	"github.com/randomizedcoder/trader-wrapper/internal/shutdown"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/trader-wrapper
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if config.IsVersionArg(os.Args[1:]) {
		fmt.Printf("trader-wrapper %s\n", version)
		return 0
	}

	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	cfg, err := config.Load(os.Args[1:], os.Environ(), self)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	logger := logging.NewLogger(cfg.LogFormat, cfg.LogLevel, cfg.Verbose)
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	if cfg.Banner {
		fmt.Print(banner.Render(banner.Info{
			Version:     version,
			InstallDir:  cfg.InstallDir,
			Executable:  cfg.ExecutableName,
			Port:        cfg.Port,
			MetricsAddr: cfg.MetricsAddr,
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The handler exits the process itself; the trader is not signalled.
	signals, stop := shutdown.Notify()
	defer stop()
	go shutdown.New(signals, os.Exit, logging.WithTag(logger, logging.TagShutdown)).Wait(ctx)

	wrapperLogger := logging.WithTag(logger, logging.TagWrapper)
	wrapperLogger.Info("starting",
		"version", version,
		"install_dir", cfg.InstallDir,
		"executable", cfg.ExecutableName,
		"port", cfg.Port,
		"metrics_addr", cfg.MetricsAddr,
	)

	orch := orchestrator.New(cfg, wrapperLogger, orchestrator.Options{
		Metrics: metrics.NewCollector(version),
		Version: version,
	})
	return orch.Run(ctx)
}
