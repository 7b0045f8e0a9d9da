package stats

import (
	"fmt"
	"strings"
	"time"
)

// RunSummary describes one completed run of the trader process.
type RunSummary struct {
	Path     string
	PID      int
	ExitCode int
	Uptime   time.Duration
	Relay    RelaySnapshot

	// MetricsAddr is the Prometheus endpoint, if enabled.
	MetricsAddr string
}

// FormatExitSummary formats the summary printed after the trader exits.
func FormatExitSummary(s RunSummary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")
	b.WriteString("                    trader-wrapper Exit Summary\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "Executable:             %s\n", s.Path)
	fmt.Fprintf(&b, "PID:                    %d\n", s.PID)
	fmt.Fprintf(&b, "Uptime:                 %s\n", FormatDuration(s.Uptime))
	fmt.Fprintf(&b, "Exit Code:              %d %s\n", s.ExitCode, exitCodeLabel(s.ExitCode))
	b.WriteString("\n")

	b.WriteString("Relayed Output:\n")
	fmt.Fprintf(&b, "  Lines:                %s\n", FormatNumber(s.Relay.Lines))
	fmt.Fprintf(&b, "  Bytes:                %s\n", FormatBytes(s.Relay.Bytes))
	if s.Relay.Lines > 0 {
		fmt.Fprintf(&b, "  Line Size P50:        %.0f B\n", s.Relay.SizeP50)
		fmt.Fprintf(&b, "  Line Size P95:        %.0f B\n", s.Relay.SizeP95)
		fmt.Fprintf(&b, "  Line Size P99:        %.0f B\n", s.Relay.SizeP99)
		fmt.Fprintf(&b, "  Longest Line:         %d B\n", s.Relay.MaxLine)
	}
	b.WriteString("\n")

	if s.MetricsAddr != "" {
		fmt.Fprintf(&b, "Metrics endpoint was: http://%s/metrics\n", s.MetricsAddr)
	}
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// exitCodeLabel returns a human-readable label for common exit codes.
func exitCodeLabel(code int) string {
	switch code {
	case 0:
		return "(clean)"
	case 1:
		return "(error)"
	case 137:
		return "(SIGKILL)"
	case 143:
		return "(SIGTERM)"
	default:
		return ""
	}
}

// FormatDuration formats a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatNumber formats a number with K/M suffixes for readability.
func FormatNumber(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

// FormatBytes formats bytes with KB/MB/GB suffixes.
func FormatBytes(n int64) string {
	if n >= 1_000_000_000 {
		return fmt.Sprintf("%.2f GB", float64(n)/1_000_000_000)
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.2f MB", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.2f KB", float64(n)/1_000)
	}
	return fmt.Sprintf("%d B", n)
}
