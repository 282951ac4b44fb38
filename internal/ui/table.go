package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/infradash/internal/status"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is focused, so the selected row renders like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// HealthRow is one family line of the status table.
type HealthRow struct {
	Title   string
	Service string
	Health  status.Health
	Count   int
	Detail  string
}

// RenderHealthTable renders per-family health as a formatted table.
func RenderHealthTable(rows []HealthRow) string {
	if len(rows) == 0 {
		return "No resources reported"
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)
	mutedStyle := MutedStyle()

	var b strings.Builder
	b.WriteString(headerStyle.Render("  HEALTH      FAMILY              SERVICE      COUNT  DETAIL") + "\n")

	for _, row := range rows {
		label := healthSymbol(row.Health) + " " + row.Health.Label()
		b.WriteString("  " +
			padRight(label, 12) +
			padRight(row.Title, 20) +
			padRight(mutedStyle.Render(row.Service), 13) +
			padRight(fmt.Sprintf("%5d", row.Count), 7) +
			mutedStyle.Render(row.Detail) + "\n")
	}

	return b.String()
}

// healthSymbol returns the colored indicator for a health value.
func healthSymbol(h status.Health) string {
	switch h {
	case status.Healthy:
		return SuccessStyle().Render(SymbolComplete)
	case status.Unhealthy:
		return ErrorStyle().Render(SymbolFail)
	default:
		return MutedStyle().Render(SymbolPending)
	}
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
