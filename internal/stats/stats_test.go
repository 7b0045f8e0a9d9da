package stats

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRelayStats_Empty(t *testing.T) {
	snap := NewRelayStats().Snapshot()

	if snap.Lines != 0 || snap.Bytes != 0 {
		t.Errorf("empty snapshot = %+v", snap)
	}
	if snap.SizeP50 != 0 || snap.SizeP99 != 0 {
		t.Errorf("percentiles should be zero without lines: %+v", snap)
	}
	if !snap.FirstLine.IsZero() {
		t.Error("FirstLine should be zero")
	}
}

func TestRelayStats_RecordLine(t *testing.T) {
	s := NewRelayStats()
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i := 0; i < 100; i++ {
		s.RecordLine(10, t0.Add(time.Duration(i)*time.Second))
	}
	s.RecordLine(500, t0.Add(time.Hour))

	snap := s.Snapshot()
	if snap.Lines != 101 {
		t.Errorf("Lines = %d, want 101", snap.Lines)
	}
	if snap.Bytes != 100*10+500 {
		t.Errorf("Bytes = %d, want %d", snap.Bytes, 100*10+500)
	}
	if snap.MaxLine != 500 {
		t.Errorf("MaxLine = %d, want 500", snap.MaxLine)
	}
	if !snap.FirstLine.Equal(t0) {
		t.Errorf("FirstLine = %v, want %v", snap.FirstLine, t0)
	}
	if !snap.LastLine.Equal(t0.Add(time.Hour)) {
		t.Errorf("LastLine = %v", snap.LastLine)
	}
	if snap.SizeP50 < 9 || snap.SizeP50 > 11 {
		t.Errorf("SizeP50 = %f, want ~10", snap.SizeP50)
	}
	if s.Lines() != 101 {
		t.Errorf("Lines() = %d", s.Lines())
	}
}

func TestRelayStats_Concurrent(t *testing.T) {
	s := NewRelayStats()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.RecordLine(i, time.Now())
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := s.Lines(); got != 800 {
		t.Errorf("Lines = %d, want 800", got)
	}
}

func TestFormatExitSummary(t *testing.T) {
	rs := NewRelayStats()
	rs.RecordLine(42, time.Now())

	out := FormatExitSummary(RunSummary{
		Path:        "/srv/app/websocket-trader",
		PID:         1234,
		ExitCode:    143,
		Uptime:      90 * time.Minute,
		Relay:       rs.Snapshot(),
		MetricsAddr: "127.0.0.1:9100",
	})

	for _, want := range []string{
		"trader-wrapper Exit Summary",
		"/srv/app/websocket-trader",
		"1234",
		"01:30:00",
		"143 (SIGTERM)",
		"Longest Line:         42 B",
		"http://127.0.0.1:9100/metrics",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatExitSummary_NoLines(t *testing.T) {
	out := FormatExitSummary(RunSummary{Path: "/x"})
	if strings.Contains(out, "P50") {
		t.Errorf("percentiles should be omitted without lines:\n%s", out)
	}
	if strings.Contains(out, "Metrics endpoint") {
		t.Errorf("metrics line should be omitted when disabled:\n%s", out)
	}
}

func TestFormatHelpers(t *testing.T) {
	testCases := []struct {
		got, want string
	}{
		{FormatDuration(3723 * time.Second), "01:02:03"},
		{FormatNumber(999), "999"},
		{FormatNumber(1500), "1.5K"},
		{FormatNumber(2_500_000), "2.5M"},
		{FormatBytes(512), "512 B"},
		{FormatBytes(1500), "1.50 KB"},
		{FormatBytes(2_000_000), "2.00 MB"},
		{FormatBytes(3_000_000_000), "3.00 GB"},
		{exitCodeLabel(0), "(clean)"},
		{exitCodeLabel(137), "(SIGKILL)"},
		{exitCodeLabel(42), ""},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}
