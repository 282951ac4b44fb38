package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 64

// PhaseDisplay renders phase status to an output writer.
//
// In-progress lines are drawn with a carriage return so the finished line
// replaces them. When inline is false (output is not a terminal) they are
// skipped and only finished lines are written.
type PhaseDisplay struct {
	w      io.Writer
	inline bool
	// pending is set while an in-progress line is on screen.
	pending bool
}

// NewPhaseDisplay creates a new phase display writing to w.
func NewPhaseDisplay(w io.Writer, inline bool) *PhaseDisplay {
	return &PhaseDisplay{w: w, inline: inline}
}

// RenderProgress renders a phase in progress.
// Shows: ◐ Checking database...
func (pd *PhaseDisplay) RenderProgress(name string) {
	if !pd.inline {
		return
	}
	pd.clearLine()
	style := lipgloss.NewStyle().Foreground(ColorSecondary)
	fmt.Fprintf(pd.w, "%s %s...", style.Render(SymbolProgress), name)
	pd.pending = true
}

// RenderSuccess renders a completed phase.
// Shows: ● Connected (0.3s)
func (pd *PhaseDisplay) RenderSuccess(name string, duration time.Duration) {
	pd.clearLine()
	fmt.Fprintln(pd.w, FormatPhase(SymbolComplete, ColorSuccess, name, formatDuration(duration)))
}

// RenderWarning renders a phase that finished with a negative but expected
// outcome, such as a reachable backend that reports itself disconnected.
// Shows: ⚠ Disconnected (backend reports "degraded")
func (pd *PhaseDisplay) RenderWarning(name, reason string) {
	pd.clearLine()
	timing := ""
	if reason != "" {
		timing = "(" + reason + ")"
	}
	fmt.Fprintln(pd.w, FormatPhase(SymbolWarning, ColorWarning, name, timing))
}

// RenderFailed renders a failed phase with an optional detail line.
// Shows: ✗ Connection failed (2.3s)
func (pd *PhaseDisplay) RenderFailed(name string, duration time.Duration, detail string) {
	pd.clearLine()
	fmt.Fprintln(pd.w, FormatPhase(SymbolFail, ColorError, name, formatDuration(duration)))
	if detail != "" {
		pd.RenderSubStatus("", detail, "")
	}
}

// RenderSubStatus renders an indented sub-status line.
// Shows:   ○ database                                 available
func (pd *PhaseDisplay) RenderSubStatus(symbol string, name string, status string) {
	pd.clearLine()
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	line := "  "
	if symbol != "" {
		line += style.Render(symbol) + " "
	}
	line += name
	if status != "" {
		line += " " + style.Render(status)
	}
	fmt.Fprintln(pd.w, line)
}

// Divider renders a horizontal line to separate the phases from a summary.
// Uses thick box-drawing characters: ━━━━━━━━━━━━━━━━━
func (pd *PhaseDisplay) Divider() {
	pd.clearLine()
	fmt.Fprintf(pd.w, "\n%s\n\n", FormatDivider(DividerWidth))
}

// Newline writes an empty line.
func (pd *PhaseDisplay) Newline() {
	pd.clearLine()
	fmt.Fprintln(pd.w)
}

// clearLine clears a pending in-progress line.
func (pd *PhaseDisplay) clearLine() {
	if !pd.pending {
		return
	}
	fmt.Fprint(pd.w, "\r"+strings.Repeat(" ", 80)+"\r")
	pd.pending = false
}

// FormatPhase returns a formatted phase line as a string.
func FormatPhase(symbol string, symbolColor lipgloss.Color, name string, timing string) string {
	symbolStyle := lipgloss.NewStyle().Foreground(symbolColor)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	if timing == "" {
		return fmt.Sprintf("%s %s", symbolStyle.Render(symbol), name)
	}
	return fmt.Sprintf("%s %s %s", symbolStyle.Render(symbol), name, timingStyle.Render(timing))
}

// FormatDivider returns a divider line as a string.
func FormatDivider(width int) string {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	return style.Render(strings.Repeat("━", width))
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
