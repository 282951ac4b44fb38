package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/probe"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

type probeSubscriber interface {
	Subscribe(fn func(probe.Check)) (unsubscribe func())
}

type dashboardSubscriber interface {
	Subscribe(fn func(dashboard.ViewState)) (unsubscribe func())
}

// Bridge forwards probe and orchestrator notifications into the program.
// The returned function removes both subscriptions.
func Bridge(s Sender, p probeSubscriber, d dashboardSubscriber) (detach func()) {
	unProbe := p.Subscribe(func(c probe.Check) {
		s.Send(checkMsg(c))
	})
	unDash := d.Subscribe(func(st dashboard.ViewState) {
		s.Send(viewMsg(st))
	})
	return func() {
		unProbe()
		unDash()
	}
}
