package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	rerrors "github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/probe"
	"github.com/rileyhilliard/infradash/internal/resource"
)

type fakeProber struct {
	mu      sync.Mutex
	check   probe.Check
	starts  []time.Duration
	retries []time.Duration
}

func (f *fakeProber) Current() probe.Check {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.check
}

func (f *fakeProber) Start(timeout time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, timeout)
}

func (f *fakeProber) Retry(timeout time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retries = append(f.retries, timeout)
}

type fakeDashboard struct {
	mu       sync.Mutex
	enterErr error
	active   bool
	current  dashboard.View
	states   map[dashboard.View]dashboard.ViewState
	selected []dashboard.View
	refresh  int
	leaves   int
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{states: make(map[dashboard.View]dashboard.ViewState)}
}

func (f *fakeDashboard) Enter() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enterErr != nil {
		return f.enterErr
	}
	f.active = true
	return nil
}

func (f *fakeDashboard) Leave() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = false
	f.leaves++
}

func (f *fakeDashboard) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeDashboard) Current() dashboard.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeDashboard) SelectView(v dashboard.View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = append(f.selected, v)
	f.current = v
	return nil
}

func (f *fakeDashboard) Refresh() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh++
	return nil
}

func (f *fakeDashboard) State(v dashboard.View) dashboard.ViewState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.states[v]
	if !ok {
		st.View = v
	}
	return st
}

type fakeHealth struct {
	report *resource.HealthReport
	err    error
}

func (f fakeHealth) Health(context.Context) (*resource.HealthReport, error) {
	return f.report, f.err
}

func newTestModel(opts Options) (Model, *fakeProber, *fakeDashboard) {
	p := &fakeProber{}
	d := newFakeDashboard()
	return NewModel(p, d, nil, opts), p, d
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func connected() checkMsg {
	return checkMsg(probe.Check{ID: "run-1", Status: probe.Connected, Progress: 100, Message: "Connected to infrastructure"})
}

func enterDashboard(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, connected())
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Equal(t, ScreenDashboard, m.Screen())
	return m
}

func TestNewModel_Defaults(t *testing.T) {
	m, _, _ := newTestModel(Options{})

	assert.Equal(t, ScreenConnection, m.Screen())
	assert.Equal(t, 3*time.Second, m.opts.ProbeTimeout)
	assert.Equal(t, 5*time.Second, m.opts.HealthTimeout)
	assert.NotNil(t, m.views)
}

func TestModel_StartCmdRunsProbe(t *testing.T) {
	m, p, _ := newTestModel(Options{ProbeTimeout: 2 * time.Second})

	assert.Nil(t, m.startCmd()())
	assert.Equal(t, []time.Duration{2 * time.Second}, p.starts)
}

func TestModel_RetryKey(t *testing.T) {
	m, p, _ := newTestModel(Options{ProbeTimeout: time.Second})
	m.notice = "old"

	m, cmd := update(t, m, key("r"))
	require.NotNil(t, cmd)
	cmd()

	assert.Empty(t, m.notice)
	assert.Equal(t, []time.Duration{time.Second}, p.retries)
}

func TestModel_EnterRequiresConnected(t *testing.T) {
	tests := []struct {
		name   string
		status probe.Status
	}{
		{"idle", probe.Idle},
		{"checking", probe.Checking},
		{"disconnected", probe.Disconnected},
		{"failed", probe.Failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, d := newTestModel(Options{})
			m, _ = update(t, m, checkMsg(probe.Check{ID: "x", Status: tt.status}))

			m, cmd := update(t, m, key("enter"))
			assert.Nil(t, cmd)
			assert.Equal(t, ScreenConnection, m.Screen())
			assert.NotEmpty(t, m.notice)
			assert.False(t, d.Active())
		})
	}
}

func TestModel_EnterWhenConnected(t *testing.T) {
	m, _, d := newTestModel(Options{})
	d.states[dashboard.Overview] = dashboard.ViewState{View: dashboard.Overview, Loading: true}

	m = enterDashboard(t, m)

	assert.True(t, d.Active())
	assert.True(t, m.views[dashboard.Overview].Loading)
	assert.Equal(t, dashboard.Overview, m.current)
}

func TestModel_EnterErrorStaysOnConnection(t *testing.T) {
	m, _, _ := newTestModel(Options{})

	m, _ = update(t, m, enteredMsg{err: rerrors.New(rerrors.ErrProbe, "Infrastructure is not connected", "")})

	assert.Equal(t, ScreenConnection, m.Screen())
	assert.Equal(t, "Infrastructure is not connected", m.notice)
}

func TestModel_AutoEnter(t *testing.T) {
	m, _, d := newTestModel(Options{AutoEnter: true})

	m, cmd := update(t, m, checkMsg(probe.Check{ID: "run-1", Status: probe.Checking, Progress: 40}))
	assert.Nil(t, cmd, "no auto enter while checking")

	m, cmd = update(t, m, connected())
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, ScreenDashboard, m.Screen())
	assert.True(t, d.Active())

	// The same connected check does not trigger again.
	_, cmd = update(t, m, connected())
	assert.Nil(t, cmd)
}

func TestModel_NewRunClearsNotice(t *testing.T) {
	m, _, _ := newTestModel(Options{})
	m.check = probe.Check{ID: "a"}
	m.notice = "Resources are available once the connection check succeeds"

	m, _ = update(t, m, checkMsg(probe.Check{ID: "a", Status: probe.Checking}))
	assert.NotEmpty(t, m.notice)

	m, _ = update(t, m, checkMsg(probe.Check{ID: "b", Status: probe.Checking}))
	assert.Empty(t, m.notice)
}

func TestModel_DashboardKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want dashboard.View
	}{
		{"digit selects view", []string{"3"}, dashboard.LoadBalancer},
		{"seven is content delivery", []string{"7"}, dashboard.ContentDelivery},
		{"tab moves forward", []string{"tab"}, dashboard.Compute},
		{"shift tab wraps", []string{"shift+tab"}, dashboard.ContentDelivery},
		{"l moves forward", []string{"l"}, dashboard.Compute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, d := newTestModel(Options{})
			m = enterDashboard(t, m)

			for _, k := range tt.keys {
				var cmd tea.Cmd
				m, cmd = update(t, m, key(k))
				require.NotNil(t, cmd)
				assert.Nil(t, cmd())
			}
			assert.Equal(t, []dashboard.View{tt.want}, d.selected)
		})
	}
}

func TestModel_RefreshAndBack(t *testing.T) {
	m, _, d := newTestModel(Options{})
	m = enterDashboard(t, m)

	_, cmd := update(t, m, key("r"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, d.refresh)

	m, cmd = update(t, m, key("c"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, ScreenConnection, m.Screen())
	assert.Equal(t, 1, d.leaves)
	assert.False(t, d.Active())
}

func TestModel_ViewMsgFollowsCurrentView(t *testing.T) {
	m, _, d := newTestModel(Options{})
	m = enterDashboard(t, m)

	d.current = dashboard.Database
	m, _ = update(t, m, viewMsg(dashboard.ViewState{View: dashboard.Database, Loading: true}))

	assert.Equal(t, dashboard.Database, m.current)
	assert.True(t, m.views[dashboard.Database].Loading)
}

func TestModel_Health(t *testing.T) {
	tests := []struct {
		name   string
		health fakeHealth
		want   string
	}{
		{"up", fakeHealth{report: &resource.HealthReport{Status: "UP"}}, "backend UP"},
		{"down", fakeHealth{report: &resource.HealthReport{Status: "DOWN"}}, "backend DOWN"},
		{"error", fakeHealth{err: errors.New("refused")}, "backend DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(&fakeProber{}, newFakeDashboard(), tt.health, Options{})
			assert.Contains(t, m.renderHeader(), "backend ?")

			cmd := m.healthCmd()
			require.NotNil(t, cmd)
			m, _ = update(t, m, cmd())

			assert.Contains(t, m.renderHeader(), tt.want)
		})
	}
}

func TestModel_HealthCmdNilWithoutChecker(t *testing.T) {
	m, _, _ := newTestModel(Options{})
	assert.Nil(t, m.healthCmd())
	assert.NotContains(t, m.renderHeader(), "backend")
}

func TestRenderHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(Options{})

	unsized := m.renderHelpOverlay()
	for _, b := range helpBindings {
		assert.Contains(t, unsized, b.Desc)
	}

	m.width, m.height = 120, 40
	placed := m.renderHelpOverlay()
	assert.Len(t, strings.Split(placed, "\n"), 40)
	assert.Contains(t, placed, "Keyboard Shortcuts")
}

func TestModel_HelpAndQuit(t *testing.T) {
	m, _, _ := newTestModel(Options{})

	m, _ = update(t, m, key("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = update(t, m, key("esc"))
	assert.False(t, m.showHelp)

	m, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_WindowResize(t *testing.T) {
	m, _, _ := newTestModel(Options{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.True(t, m.bodyReady)
	assert.Equal(t, 34, m.body.Height)
	assert.Equal(t, 60, m.bar.Width)
}

func TestShiftView(t *testing.T) {
	m, _, _ := newTestModel(Options{})

	m.current = dashboard.Overview
	assert.Equal(t, dashboard.ContentDelivery, m.shiftView(-1))
	m.current = dashboard.ContentDelivery
	assert.Equal(t, dashboard.Overview, m.shiftView(1))
}

func TestScreen_String(t *testing.T) {
	assert.Equal(t, "connection", ScreenConnection.String())
	assert.Equal(t, "dashboard", ScreenDashboard.String())
}

func TestBridge(t *testing.T) {
	var s recordingSender
	p := &subscribable[probe.Check]{}
	d := &subscribable[dashboard.ViewState]{}

	detach := Bridge(&s, p, d)
	p.emit(probe.Check{ID: "a", Status: probe.Checking})
	d.emit(dashboard.ViewState{View: dashboard.Network, Loaded: true})

	require.Len(t, s.msgs, 2)
	assert.Equal(t, checkMsg(probe.Check{ID: "a", Status: probe.Checking}), s.msgs[0])
	assert.Equal(t, viewMsg(dashboard.ViewState{View: dashboard.Network, Loaded: true}), s.msgs[1])

	detach()
	p.emit(probe.Check{ID: "b"})
	assert.Len(t, s.msgs, 2)
	assert.Zero(t, p.live())
	assert.Zero(t, d.live())
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

type subscribable[T any] struct {
	fns map[int]func(T)
	n   int
}

func (s *subscribable[T]) Subscribe(fn func(T)) func() {
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.n
	s.n++
	s.fns[id] = fn
	return func() { delete(s.fns, id) }
}

func (s *subscribable[T]) emit(v T) {
	for _, fn := range s.fns {
		fn(v)
	}
}

func (s *subscribable[T]) live() int { return len(s.fns) }
