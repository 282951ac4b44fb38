package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/infradash/internal/probe"
	"github.com/rileyhilliard/infradash/internal/util"
)

var connectionBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(1, 3)

// renderConnection renders the connection check screen.
func (m Model) renderConnection() string {
	c := m.check

	var lines []string
	lines = append(lines,
		lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render("Infrastructure Connection"),
		"",
	)

	statusStyle := lipgloss.NewStyle().Foreground(CheckColor(c.Status)).Bold(true)
	indicator := m.checkGlyph()
	lines = append(lines, statusStyle.Render(indicator+" "+checkLabel(c.Status)))

	if c.Status != probe.Idle {
		lines = append(lines, "", m.bar.ViewAs(float64(c.Progress)/100.0)+
			MutedStyle.Render(fmt.Sprintf(" %3d%%", c.Progress)))
	}

	if c.Message != "" {
		lines = append(lines, "", LabelStyle.Render(c.Message))
	}

	if c.Status == probe.Failed && c.Detail != "" && c.Detail != c.Message {
		detail := strings.TrimSpace(strings.SplitN(c.Detail, "\n", 2)[0])
		lines = append(lines, MutedStyle.Render(util.Truncate(detail, 70)))
	}

	if c.Status.Terminal() && c.Duration() > 0 {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("finished in %s", c.Duration().Round(10*time.Millisecond))))
	}

	if m.notice != "" {
		lines = append(lines, "", ErrorStyle.Render(m.notice))
	}

	lines = append(lines, "", m.connectionHints())

	box := connectionBoxStyle.Render(strings.Join(lines, "\n"))
	header := m.renderHeader()

	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + box
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, box)
	return header + "\n" + body
}

func (m Model) checkGlyph() string {
	switch m.check.Status {
	case probe.Checking:
		return LoadingSpinnerFrames[m.spinnerFrame%len(LoadingSpinnerFrames)]
	case probe.Connected:
		return GlyphHealthy
	case probe.Disconnected, probe.Failed:
		return GlyphUnhealthy
	}
	return GlyphUnknown
}

func checkLabel(s probe.Status) string {
	switch s {
	case probe.Idle:
		return "Waiting to check"
	case probe.Checking:
		return "Checking connection"
	case probe.Connected:
		return "Connected"
	case probe.Disconnected:
		return "Disconnected"
	case probe.Failed:
		return "Connection failed"
	}
	return s.String()
}

func (m Model) connectionHints() string {
	hints := []string{"r retry"}
	if m.check.Status == probe.Connected {
		hints = append([]string{"enter view resources"}, hints...)
	}
	hints = append(hints, "? help", "q quit")
	return MutedStyle.Render(strings.Join(hints, " | "))
}
