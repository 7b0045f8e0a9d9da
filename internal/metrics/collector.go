// Package metrics provides Prometheus metrics for trader-wrapper.
//
// The metrics describe the wrapper, not the trader: which mode it is in,
// how launches went, how much output was relayed, and what the fallback
// server answered.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Mode is the wrapper's operating mode as exported by trader_wrapper_mode.
type Mode int

const (
	ModeStarting    Mode = -1
	ModeSupervising Mode = 0
	ModeFallback    Mode = 1
)

// Launch outcomes recorded in trader_wrapper_launches_total.
const (
	OutcomeStarted       = "started"
	OutcomeNotFound      = "not_found"
	OutcomeMissing       = "missing"
	OutcomeNotExecutable = "not_executable"
	OutcomeOther         = "other"
)

// Collector holds all wrapper metrics. Each Collector owns its metric
// instances, so several can coexist (one per registry) in tests.
type Collector struct {
	info             *prometheus.GaugeVec
	mode             prometheus.Gauge
	launches         *prometheus.CounterVec
	childRunning     prometheus.Gauge
	childUptime      prometheus.Gauge
	childExitCode    prometheus.Gauge
	relayedLines     prometheus.Counter
	relayedBytes     prometheus.Counter
	fallbackRequests *prometheus.CounterVec
}

// NewCollector creates a collector registered with the default registry.
func NewCollector(version string) *Collector {
	return NewCollectorWithRegistry(version, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(version string, registry prometheus.Registerer) *Collector {
	c := &Collector{
		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trader_wrapper_info",
				Help: "Information about the wrapper (value always 1)",
			},
			[]string{"version"},
		),
		mode: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "trader_wrapper_mode",
				Help: "Operating mode (-1 = starting, 0 = supervising, 1 = fallback)",
			},
		),
		launches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trader_wrapper_launches_total",
				Help: "Trader launch attempts by outcome",
			},
			[]string{"outcome"},
		),
		childRunning: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "trader_wrapper_child_running",
				Help: "1 while the trader process is running",
			},
		),
		childUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "trader_wrapper_child_uptime_seconds",
				Help: "Uptime of the last trader process at exit",
			},
		),
		childExitCode: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "trader_wrapper_child_exit_code",
				Help: "Exit code of the last trader process",
			},
		),
		relayedLines: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trader_wrapper_relayed_lines_total",
				Help: "Lines of trader output relayed to stdout",
			},
		),
		relayedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trader_wrapper_relayed_bytes_total",
				Help: "Bytes of trader output relayed to stdout (after trimming)",
			},
		),
		fallbackRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trader_wrapper_fallback_requests_total",
				Help: "Requests answered by the fallback server",
			},
			[]string{"route", "code"},
		),
	}

	registry.MustRegister(
		c.info,
		c.mode,
		c.launches,
		c.childRunning,
		c.childUptime,
		c.childExitCode,
		c.relayedLines,
		c.relayedBytes,
		c.fallbackRequests,
	)

	c.info.WithLabelValues(version).Set(1)
	c.mode.Set(float64(ModeStarting))

	return c
}

// SetMode records the current operating mode.
func (c *Collector) SetMode(m Mode) {
	c.mode.Set(float64(m))
}

// RecordLaunch records the outcome of a launch attempt.
func (c *Collector) RecordLaunch(outcome string) {
	c.launches.WithLabelValues(outcome).Inc()
}

// ChildStarted marks the trader as running.
func (c *Collector) ChildStarted() {
	c.childRunning.Set(1)
}

// ChildExited records the trader's exit.
func (c *Collector) ChildExited(exitCode int, uptime time.Duration) {
	c.childRunning.Set(0)
	c.childExitCode.Set(float64(exitCode))
	c.childUptime.Set(uptime.Seconds())
}

// LineRelayed counts one relayed line of n bytes.
func (c *Collector) LineRelayed(n int) {
	c.relayedLines.Inc()
	c.relayedBytes.Add(float64(n))
}

// FallbackRequest counts one fallback response.
func (c *Collector) FallbackRequest(route string, code int) {
	c.fallbackRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
