package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrRed    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	clrMuted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
)

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(clrGreen).Bold(true)
	StyleWarn    = lipgloss.NewStyle().Foreground(clrYellow)
	StyleFail    = lipgloss.NewStyle().Foreground(clrRed).Bold(true)
	StyleMuted   = lipgloss.NewStyle().Foreground(clrMuted)
	StyleHeader  = lipgloss.NewStyle().Bold(true)
)

// colorEnabled is false when stdout is not a terminal — CI logs stay plain.
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// Render applies style to s, or returns s unchanged when stdout is not a
// terminal.
func Render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// FormatBytes renders a byte count in human units, e.g. "8.9 GB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
