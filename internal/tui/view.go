package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	rerrors "github.com/rileyhilliard/infradash/internal/errors"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.bodyReady {
		b.WriteString(m.body.View())
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title with connection and backend health badges.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("infradash")

	parts := []string{title}
	if m.opts.Server != "" {
		parts = append(parts, LabelStyle.Render(m.opts.Server))
	}

	conn := lipgloss.NewStyle().Foreground(CheckColor(m.check.Status)).Render(m.check.Status.String())
	parts = append(parts, conn)

	if m.health != nil {
		parts = append(parts, m.healthBadge())
	}

	if m.screen == ScreenDashboard {
		if st := m.views[dashboard.Overview]; st.Loaded {
			parts = append(parts, LabelStyle.Render(fmt.Sprintf("%d/%d resources healthy", st.Totals.Healthy, st.Totals.Resources)))
		}
	}

	return HeaderStyle.Render(strings.Join(parts, LabelStyle.Render(" | ")))
}

func (m Model) healthBadge() string {
	switch {
	case !m.healthKnown:
		return MutedStyle.Render("backend ?")
	case m.reportOK:
		return lipgloss.NewStyle().Foreground(ColorHealthy).Render("backend UP")
	default:
		return lipgloss.NewStyle().Foreground(ColorCritical).Render("backend DOWN")
	}
}

// renderTabs renders the view selector.
func (m Model) renderTabs() string {
	var tabs []string
	for i, v := range dashboard.Views() {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		st := m.views[v]
		if st.Err != nil {
			label += " !"
		}
		if v == m.current {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderBody renders the selected view's content.
func (m Model) renderBody() string {
	st := m.views[m.current]

	var b strings.Builder
	if line := m.statusLine(st); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	if !st.Loaded {
		if st.Err == nil {
			b.WriteString(LabelStyle.Render(fmt.Sprintf("Loading %s...", st.View.Title())))
		}
		return b.String()
	}

	if m.current == dashboard.Overview {
		b.WriteString(m.renderOverview(st))
	} else {
		b.WriteString(m.renderDetail(st))
	}
	return b.String()
}

// statusLine shows loading and error state above the view content.
func (m Model) statusLine(st dashboard.ViewState) string {
	var parts []string
	if st.Loading {
		spin := LoadingSpinnerFrames[m.spinnerFrame%len(LoadingSpinnerFrames)]
		parts = append(parts, lipgloss.NewStyle().Foreground(ColorGraph).Render(spin+" refreshing"))
	}
	if st.Err != nil {
		parts = append(parts, ErrorStyle.Render(GlyphUnhealthy+" "+summary(st.Err)))
		if st.Loaded {
			parts = append(parts, MutedStyle.Render("showing last good data"))
		}
	}
	if !st.UpdatedAt.IsZero() {
		parts = append(parts, MutedStyle.Render("updated "+formatAge(time.Since(st.UpdatedAt))))
	}
	if m.notice != "" {
		parts = append(parts, ErrorStyle.Render(m.notice))
	}
	return strings.Join(parts, "  ")
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"1-7/tab views",
		"c connection",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

func formatAge(d time.Duration) string {
	s := int(d.Seconds())
	switch {
	case s <= 0:
		return "just now"
	case s < 60:
		return fmt.Sprintf("%ds ago", s)
	case s < 3600:
		return fmt.Sprintf("%dm ago", s/60)
	}
	return fmt.Sprintf("%dh ago", s/3600)
}

func summary(err error) string {
	return rerrors.Summary(err)
}
