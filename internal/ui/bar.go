package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// ProgressColorFunc returns a color for a percentage.
type ProgressColorFunc func(percent float64) lipgloss.Color

// ShareColor colors a share where more is better: 50%+ green, 20%+ yellow,
// anything less blue.
func ShareColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 50:
		return ColorSuccess
	case percent >= 20:
		return ColorWarning
	default:
		return ColorSecondary
	}
}

// BarConfig configures bar rendering.
type BarConfig struct {
	Width       int               // Width of the bar in characters
	Brackets    bool              // Whether to wrap bar in [ ]
	ColorFunc   ProgressColorFunc // Function to determine bar color
	ShowPercent bool              // Whether to append percentage
}

// ShareBarConfig returns the config used for vote shares.
func ShareBarConfig(width int) BarConfig {
	return BarConfig{
		Width:       width,
		Brackets:    true,
		ColorFunc:   ShareColor,
		ShowPercent: true,
	}
}

// ClampPercent clamps a percentage to the 0-100 range.
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// RenderBar renders a bar with the given configuration.
// Output format: [████████░░░░]  67%
func RenderBar(percent float64, config BarConfig) string {
	if config.Width <= 0 {
		return ""
	}

	percent = ClampPercent(percent)
	filled := int((percent / 100.0) * float64(config.Width))

	var sb strings.Builder
	if config.Brackets {
		sb.WriteRune('[')
	}
	sb.WriteString(strings.Repeat(string(BarFilled), filled))
	sb.WriteString(strings.Repeat(string(BarEmpty), config.Width-filled))
	if config.Brackets {
		sb.WriteRune(']')
	}

	bar := sb.String()
	if config.ColorFunc != nil {
		bar = lipgloss.NewStyle().Foreground(config.ColorFunc(percent)).Render(bar)
	}
	if config.ShowPercent {
		bar += fmt.Sprintf(" %3.0f%%", percent)
	}
	return bar
}
