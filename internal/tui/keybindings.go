package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/probe"
)

// Screen is the top-level page shown by the model.
type Screen int

const (
	ScreenConnection Screen = iota
	ScreenDashboard
)

func (s Screen) String() string {
	if s == ScreenDashboard {
		return "dashboard"
	}
	return "connection"
}

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRetry       = "r"
	KeyRefresh     = "r"
	KeyEnter       = "enter"
	KeyBack        = "c"
	KeyHealth      = "H"
	KeyNextTab     = "tab"
	KeyPrevTab     = "shift+tab"
	KeyNextTabL    = "l"
	KeyPrevTabH    = "h"
	KeyNextArrow   = "right"
	KeyPrevArrow   = "left"
	KeyScrollUp    = "up"
	KeyScrollUpK   = "k"
	KeyScrollDown  = "down"
	KeyScrollDownJ = "j"
	KeyCollapse    = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input. It reports whether the key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit
	case KeyHealth:
		return true, m.healthCmd()
	}

	if m.screen == ScreenConnection {
		return m.handleConnectionKey(key)
	}
	return m.handleDashboardKey(key)
}

func (m *Model) handleConnectionKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeyRetry:
		m.notice = ""
		return true, m.retryCmd()
	case KeyEnter:
		if m.check.Status != probe.Connected {
			m.notice = "Resources are available once the connection check succeeds"
			return true, nil
		}
		return true, m.enterCmd()
	}
	return false, nil
}

func (m *Model) handleDashboardKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeyRefresh:
		return true, m.refreshCmd()
	case KeyBack:
		m.screen = ScreenConnection
		m.notice = ""
		return true, m.leaveCmd()
	case KeyNextTab, KeyNextTabL, KeyNextArrow:
		return true, m.selectCmd(m.shiftView(1))
	case KeyPrevTab, KeyPrevTabH, KeyPrevArrow:
		return true, m.selectCmd(m.shiftView(-1))
	case KeyScrollUp, KeyScrollUpK:
		m.body.ScrollUp(1)
		return true, nil
	case KeyScrollDown, KeyScrollDownJ:
		m.body.ScrollDown(1)
		return true, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '7' {
		return true, m.selectCmd(dashboard.View(key[0] - '1'))
	}
	return false, nil
}

func (m *Model) shiftView(delta int) dashboard.View {
	n := len(dashboard.Views())
	return dashboard.View(((int(m.current)+delta)%n + n) % n)
}
