// Package stats provides statistics for the relayed trader output and the
// exit summary printed when the trader process ends.
package stats

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"
)

// RelayStats accumulates counts and line-size percentiles for one run of the
// relay loop. Safe for concurrent use.
type RelayStats struct {
	mu        sync.Mutex
	lines     int64
	bytes     int64
	maxLine   int
	firstLine time.Time
	lastLine  time.Time

	// ~100 centroids, ~10KB regardless of line count
	sizeDigest *tdigest.TDigest
}

// NewRelayStats creates an empty RelayStats.
func NewRelayStats() *RelayStats {
	return &RelayStats{
		sizeDigest: tdigest.NewWithCompression(100),
	}
}

// RecordLine records one relayed line of n bytes (after trimming).
func (s *RelayStats) RecordLine(n int, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lines == 0 {
		s.firstLine = at
	}
	s.lastLine = at
	s.lines++
	s.bytes += int64(n)
	if n > s.maxLine {
		s.maxLine = n
	}
	s.sizeDigest.Add(float64(n), 1)
}

// RelaySnapshot is a point-in-time copy of RelayStats.
type RelaySnapshot struct {
	Lines     int64
	Bytes     int64
	MaxLine   int
	FirstLine time.Time
	LastLine  time.Time

	// Line-size percentiles in bytes; zero when no lines were seen.
	SizeP50 float64
	SizeP95 float64
	SizeP99 float64
}

// Snapshot returns the current statistics.
func (s *RelayStats) Snapshot() RelaySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := RelaySnapshot{
		Lines:     s.lines,
		Bytes:     s.bytes,
		MaxLine:   s.maxLine,
		FirstLine: s.firstLine,
		LastLine:  s.lastLine,
	}
	if s.lines > 0 {
		snap.SizeP50 = s.sizeDigest.Quantile(0.50)
		snap.SizeP95 = s.sizeDigest.Quantile(0.95)
		snap.SizeP99 = s.sizeDigest.Quantile(0.99)
	}
	return snap
}

// Lines returns the number of lines recorded so far.
func (s *RelayStats) Lines() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}
