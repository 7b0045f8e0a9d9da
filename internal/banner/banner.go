// Package banner renders the startup banner printed before the wrapper
// starts looking for the trader.
package banner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorTextMuted = lipgloss.Color("#9CA3AF") // Medium gray
	colorBorder    = lipgloss.Color("#374151") // Border gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Width(10)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorBorder).
			Padding(1, 4)
)

// Info is what the banner reports about the run.
type Info struct {
	Version     string
	InstallDir  string
	Executable  string
	Port        string
	MetricsAddr string
}

// Render returns the banner box followed by a short settings block.
func Render(info Info) string {
	header := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("FOREX WEBSOCKET TRADER - WRAPPER"),
		subtitleStyle.Render("Running pre-built trader executable"),
	)

	var b strings.Builder
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	row(&b, "Version", info.Version)
	row(&b, "Directory", info.InstallDir)
	row(&b, "Trader", info.Executable)
	row(&b, "Port", info.Port)
	if info.MetricsAddr != "" {
		row(&b, "Metrics", fmt.Sprintf("http://%s/metrics", info.MetricsAddr))
	}
	b.WriteString("\n")

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s %s\n", labelStyle.Render(label+":"), value)
}
