package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/probe"
	"github.com/rileyhilliard/infradash/internal/resource"
)

// Prober is the part of the connection probe the model drives.
type Prober interface {
	Current() probe.Check
	Start(timeout time.Duration)
	Retry(timeout time.Duration)
}

// Dashboard is the part of the orchestrator the model drives.
type Dashboard interface {
	Enter() error
	Leave()
	Active() bool
	Current() dashboard.View
	SelectView(v dashboard.View) error
	Refresh() error
	State(v dashboard.View) dashboard.ViewState
}

// HealthChecker fetches the backend's own health report.
type HealthChecker interface {
	Health(ctx context.Context) (*resource.HealthReport, error)
}

// Options tune the model.
type Options struct {
	// ProbeTimeout bounds each connection check.
	ProbeTimeout time.Duration
	// AutoEnter switches to the dashboard as soon as a check connects.
	AutoEnter bool
	// HealthTimeout bounds the backend health request.
	HealthTimeout time.Duration
	// Server is shown in the header.
	Server string
}

// Model is the Bubble Tea model for the connection screen and the dashboard.
//
// Probe and orchestrator listeners deliver checkMsg and viewMsg through
// program.Send, which blocks until Update runs. Every call that can notify
// synchronously (Start, Retry, SelectView, Enter) is therefore issued from a
// tea.Cmd, never from Update itself.
type Model struct {
	probe  Prober
	dash   Dashboard
	health HealthChecker
	opts   Options

	screen   Screen
	check    probe.Check
	current  dashboard.View
	views    map[dashboard.View]dashboard.ViewState
	report   *resource.HealthReport
	reportOK bool
	// healthKnown is set once a health response (or failure) arrived.
	healthKnown bool
	notice      string

	width    int
	height   int
	showHelp bool
	quitting bool

	spinnerFrame int
	bar          progress.Model
	body         viewport.Model
	bodyReady    bool
}

// checkMsg carries a connection check update.
type checkMsg probe.Check

// viewMsg carries a view state update from the orchestrator.
type viewMsg dashboard.ViewState

// enteredMsg reports the outcome of entering the dashboard.
type enteredMsg struct{ err error }

// healthMsg carries the backend health report.
type healthMsg struct {
	report *resource.HealthReport
	err    error
}

// spinnerTickMsg advances loading animations.
type spinnerTickMsg time.Time

const spinnerInterval = 150 * time.Millisecond

// NewModel creates the model. health may be nil to hide the badge.
func NewModel(p Prober, d Dashboard, health HealthChecker, opts Options) Model {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 3 * time.Second
	}
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = 5 * time.Second
	}
	return Model{
		probe:   p,
		dash:    d,
		health:  health,
		opts:    opts,
		check:   p.Current(),
		current: d.Current(),
		views:   make(map[dashboard.View]dashboard.ViewState),
		bar: progress.New(
			progress.WithGradient(string(ColorAccentDim), string(ColorAccent)),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
	}
}

// Init starts the first connection check, the spinner, and the health check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.spinnerTickCmd(), m.healthCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			m.refreshBody()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10000
		if m.screen == ScreenDashboard && m.views[m.current].Loading {
			m.refreshBody()
		}
		return m, m.spinnerTickCmd()

	case checkMsg:
		prev := m.check
		m.check = probe.Check(msg)
		if m.check.ID != prev.ID {
			m.notice = ""
		}
		becameConnected := m.check.Status == probe.Connected &&
			(prev.Status != probe.Connected || prev.ID != m.check.ID)
		if becameConnected && m.opts.AutoEnter && m.screen == ScreenConnection {
			return m, m.enterCmd()
		}

	case enteredMsg:
		if msg.err != nil {
			m.notice = summary(msg.err)
			return m, nil
		}
		m.screen = ScreenDashboard
		m.current = m.dash.Current()
		m.views = make(map[dashboard.View]dashboard.ViewState)
		for _, v := range dashboard.Views() {
			m.views[v] = m.dash.State(v)
		}
		m.body.GotoTop()
		m.refreshBody()

	case viewMsg:
		st := dashboard.ViewState(msg)
		m.views[st.View] = st
		if cur := m.dash.Current(); cur != m.current {
			m.current = cur
			m.body.GotoTop()
		}
		m.refreshBody()

	case healthMsg:
		m.report = msg.report
		m.healthKnown = true
		m.reportOK = msg.err == nil && msg.report.Up()
	}

	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.screen == ScreenDashboard {
		return m.renderDashboard()
	}
	return m.renderConnection()
}

// Screen returns the page being shown.
func (m Model) Screen() Screen { return m.screen }

func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (m Model) startCmd() tea.Cmd {
	p, timeout := m.probe, m.opts.ProbeTimeout
	return func() tea.Msg {
		p.Start(timeout)
		return nil
	}
}

func (m Model) retryCmd() tea.Cmd {
	p, timeout := m.probe, m.opts.ProbeTimeout
	return func() tea.Msg {
		p.Retry(timeout)
		return nil
	}
}

func (m Model) enterCmd() tea.Cmd {
	d := m.dash
	return func() tea.Msg {
		return enteredMsg{err: d.Enter()}
	}
}

func (m Model) leaveCmd() tea.Cmd {
	d := m.dash
	return func() tea.Msg {
		d.Leave()
		return nil
	}
}

func (m Model) selectCmd(v dashboard.View) tea.Cmd {
	d := m.dash
	return func() tea.Msg {
		if err := d.SelectView(v); err != nil {
			return enteredMsg{err: err}
		}
		return nil
	}
}

func (m Model) refreshCmd() tea.Cmd {
	d := m.dash
	return func() tea.Msg {
		_ = d.Refresh()
		return nil
	}
}

func (m Model) healthCmd() tea.Cmd {
	if m.health == nil {
		return nil
	}
	h, timeout := m.health, m.opts.HealthTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		report, err := h.Health(ctx)
		return healthMsg{report: report, err: err}
	}
}

// resize fits the scrollable dashboard body between the header and footer.
func (m *Model) resize() {
	headerHeight := 4
	footerHeight := 2
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}

	if !m.bodyReady {
		m.body = viewport.New(m.width, h)
		m.body.YPosition = headerHeight
		m.bodyReady = true
	} else {
		m.body.Width = m.width
		m.body.Height = h
	}

	barWidth := m.width - 20
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	m.bar.Width = barWidth

	m.refreshBody()
}

func (m *Model) refreshBody() {
	if !m.bodyReady || m.screen != ScreenDashboard {
		return
	}
	m.body.SetContent(m.renderBody())
}
