// Package ui provides the line-oriented terminal output used by the
// non-interactive infradash commands.
//
// The full-screen dashboard lives in package tui; this package covers what
// the probe, status, health and votes commands print.
//
// # Components Overview
//
//	PhaseDisplay  - Renders connection check phases with timing
//	RenderBar     - Percentage bars for vote shares
//	Tables        - Health and vote tables for status and votes output
//	Prompts       - Option picker and confirmation backed by huh forms
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Healthy, connected, voted
//	ColorError     (red)    - Unhealthy, failed
//	ColorWarning   (yellow) - Disconnected, already voted
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - In-progress indicators
//
// ConfigureColor applies the output.color setting; DisableColors switches to
// monochrome output for --no-color.
package ui
