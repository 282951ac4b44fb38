// Package dashboard coordinates which view is shown and loads its data.
//
// The orchestrator only activates after the connection probe reports
// Connected. Each view keeps its own state; a failed load marks that view
// as errored and leaves every other view, and the view's own last good
// snapshot, untouched.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/infradash/internal/config"
	rerrors "github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/logger"
	"github.com/rileyhilliard/infradash/internal/probe"
	"github.com/rileyhilliard/infradash/internal/resource"
	"github.com/rileyhilliard/infradash/internal/status"
)

// ErrSuperseded is returned by Load when a newer load of the same view, or
// Leave, discarded its result.
var ErrSuperseded = errors.New("load superseded")

// Source fetches snapshots from the backend.
type Source interface {
	InfrastructureStatus(ctx context.Context) (*resource.InfrastructureStatus, error)
	Family(ctx context.Context, f resource.Family) (resource.Snapshots, error)
}

// Gate exposes the connection check that guards entry to the dashboard.
type Gate interface {
	Current() probe.Check
}

// Observer receives the outcome of every completed load.
type Observer interface {
	ViewLoaded(v View, d time.Duration, err error)
}

// ViewState is a copy of one view's state.
type ViewState struct {
	View View
	// Loading is set while a load is in flight.
	Loading bool
	// Loaded is set once a load succeeded in this session.
	Loaded bool
	// Err is the most recent load failure, cleared when a load starts.
	Err error
	// Snapshots is the last successful data for the view.
	Snapshots resource.Snapshots
	// Overview and Totals are derived from Snapshots.
	Overview  status.Overview
	Totals    status.Totals
	UpdatedAt time.Time
}

// Summary returns the derived summary of the view's family.
func (s ViewState) Summary() status.FamilySummary {
	if f, ok := s.View.Family(); ok {
		return s.Overview.Get(f)
	}
	return status.FamilySummary{}
}

type slot struct {
	state  ViewState
	gen    uint64
	cancel context.CancelFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDefaultView sets the view selected on Enter.
func WithDefaultView(v View) Option {
	return func(o *Orchestrator) {
		if v.Valid() {
			o.defaultView = v
		}
	}
}

// WithOverviewMode selects config.OverviewAggregate or config.OverviewPerFamily.
func WithOverviewMode(mode string) Option {
	return func(o *Orchestrator) { o.mode = mode }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithObserver registers an observer for finished loads.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator owns the dashboard session. Listener calls are serialized by
// notifyMu; listeners must not call back into the orchestrator synchronously
// except for read-only accessors (State, Current, Active).
type Orchestrator struct {
	source      Source
	gate        Gate
	mode        string
	defaultView View
	log         logger.Logger
	observer    Observer
	now         func() time.Time

	notifyMu sync.Mutex

	mu        sync.Mutex
	active    bool
	current   View
	slots     map[View]*slot
	session   context.Context
	endSess   context.CancelFunc
	listeners map[int]func(ViewState)
	nextID    int

	wg sync.WaitGroup
}

// New creates an inactive orchestrator.
func New(source Source, gate Gate, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:      source,
		gate:        gate,
		mode:        config.OverviewAggregate,
		defaultView: Overview,
		log:         logger.Noop(),
		now:         time.Now,
		listeners:   make(map[int]func(ViewState)),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.resetLocked()
	return o
}

func (o *Orchestrator) resetLocked() {
	o.slots = make(map[View]*slot, len(allViews))
	for _, v := range allViews {
		o.slots[v] = &slot{state: ViewState{View: v}}
	}
	o.current = o.defaultView
}

// Enter activates the dashboard and starts loading the default view.
// It is refused unless the connection check is Connected.
func (o *Orchestrator) Enter() error {
	check := o.gate.Current()
	if check.Status != probe.Connected {
		return rerrors.New(rerrors.ErrProbe,
			fmt.Sprintf("Infrastructure is not connected (check is %s)", check.Status),
			"Wait for the connection check to succeed, or retry it")
	}

	o.notifyMu.Lock()
	o.mu.Lock()
	if o.active {
		o.mu.Unlock()
		o.notifyMu.Unlock()
		return nil
	}
	o.resetLocked()
	o.session, o.endSess = context.WithCancel(context.Background())
	o.active = true
	v := o.current
	o.log.Debug("dashboard entered after check %s", check.ID)
	o.mu.Unlock()
	o.notifyMu.Unlock()

	o.goLoad(v)
	return nil
}

// Leave deactivates the dashboard, cancelling loads in flight. Their results
// are discarded.
func (o *Orchestrator) Leave() {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return
	}
	o.active = false
	o.endSess()
	for _, s := range o.slots {
		s.gen++
		s.cancel = nil
		s.state.Loading = false
	}
	o.log.Debug("dashboard left")
}

// Active reports whether the dashboard is entered.
func (o *Orchestrator) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Current returns the selected view.
func (o *Orchestrator) Current() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// State returns a copy of v's state.
func (o *Orchestrator) State(v View) ViewState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.slots[v]; ok {
		return s.state
	}
	return ViewState{View: v}
}

// SelectView switches to v. A view without a successful snapshot in this
// session, and no load in flight, is loaded in the background.
func (o *Orchestrator) SelectView(v View) error {
	if !v.Valid() {
		return fmt.Errorf("unknown view %d", int(v))
	}

	o.notifyMu.Lock()
	o.mu.Lock()
	if !o.active {
		o.mu.Unlock()
		o.notifyMu.Unlock()
		return errInactive()
	}
	o.current = v
	st := o.slots[v].state
	listeners := o.listenerList()
	o.mu.Unlock()

	notify(listeners, st)
	o.notifyMu.Unlock()

	if !st.Loaded && !st.Loading {
		o.goLoad(v)
	}
	return nil
}

// Refresh reloads the current view in the background.
func (o *Orchestrator) Refresh() error {
	o.mu.Lock()
	active, v := o.active, o.current
	o.mu.Unlock()
	if !active {
		return errInactive()
	}
	o.goLoad(v)
	return nil
}

// RefreshEvery calls Refresh every interval until ctx is done. Ticks while
// the dashboard is inactive are skipped.
func (o *Orchestrator) RefreshEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if o.Active() {
				_ = o.Refresh()
			}
		}
	}
}

// Await blocks until v has finished a load (successfully or not) with none
// in flight, and returns its state and last error. It returns early when the
// dashboard is inactive or ctx is done.
func (o *Orchestrator) Await(ctx context.Context, v View) (ViewState, error) {
	changed := make(chan struct{}, 1)
	unsubscribe := o.Subscribe(func(st ViewState) {
		if st.View != v {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		st := o.State(v)
		if !st.Loading && (st.Loaded || st.Err != nil) {
			return st, st.Err
		}
		if !o.Active() {
			return st, errInactive()
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-changed:
		}
	}
}

// Load fetches data for v and stores it. A newer load of v supersedes this
// one: the older request is cancelled and its result discarded with
// ErrSuperseded. Failures are recorded on the view and returned.
func (o *Orchestrator) Load(ctx context.Context, v View) error {
	if !v.Valid() {
		return fmt.Errorf("unknown view %d", int(v))
	}

	o.notifyMu.Lock()
	o.mu.Lock()
	if !o.active {
		o.mu.Unlock()
		o.notifyMu.Unlock()
		return errInactive()
	}
	s := o.slots[v]
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen

	lctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(o.session, cancel)
	s.cancel = cancel
	s.state.Loading = true
	s.state.Err = nil
	st := s.state
	listeners := o.listenerList()
	o.mu.Unlock()

	notify(listeners, st)
	o.notifyMu.Unlock()

	defer func() {
		stop()
		cancel()
	}()

	started := o.now()
	snaps, err := o.fetch(lctx, v)
	elapsed := o.now().Sub(started)

	o.notifyMu.Lock()
	o.mu.Lock()
	if s.gen != gen {
		o.mu.Unlock()
		o.notifyMu.Unlock()
		o.log.Debug("discarding stale %s load", v)
		return ErrSuperseded
	}
	s.cancel = nil
	s.state.Loading = false
	if err != nil {
		err = rerrors.WrapWithCode(err, rerrors.ErrLoad,
			fmt.Sprintf("Couldn't load %s", v.Title()),
			"Refresh the view to retry")
		s.state.Err = err
	} else {
		s.state.Snapshots = snaps
		s.state.Overview = status.Aggregate(snaps)
		s.state.Totals = status.ResourceTotals(snaps)
		s.state.Loaded = true
		s.state.UpdatedAt = o.now()
	}
	st = s.state
	listeners = o.listenerList()
	o.mu.Unlock()

	notify(listeners, st)
	o.notifyMu.Unlock()

	if err != nil {
		o.log.Warn("%s load failed: %s", v, rerrors.Summary(err))
	} else {
		o.log.Debug("%s loaded in %s", v, elapsed)
	}
	if o.observer != nil {
		o.observer.ViewLoaded(v, elapsed, err)
	}
	return err
}

func (o *Orchestrator) fetch(ctx context.Context, v View) (resource.Snapshots, error) {
	if f, ok := v.Family(); ok {
		s, err := o.source.Family(ctx, f)
		if err != nil {
			return resource.Snapshots{}, err
		}
		return s.Only(f), nil
	}

	if o.mode == config.OverviewPerFamily {
		return o.fetchPerFamily(ctx)
	}
	doc, err := o.source.InfrastructureStatus(ctx)
	if err != nil {
		return resource.Snapshots{}, err
	}
	return doc.Snapshots(), nil
}

// fetchPerFamily fetches every family concurrently. Any failure fails the
// whole load and cancels the remaining requests.
func (o *Orchestrator) fetchPerFamily(ctx context.Context) (resource.Snapshots, error) {
	families := resource.Families()
	parts := make([]resource.Snapshots, len(families))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range families {
		g.Go(func() error {
			s, err := o.source.Family(gctx, f)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Service(), err)
			}
			parts[i] = s.Only(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return resource.Snapshots{}, err
	}

	var out resource.Snapshots
	for _, p := range parts {
		out = out.Merge(p)
	}
	return out, nil
}

func (o *Orchestrator) goLoad(v View) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		_ = o.Load(context.Background(), v)
	}()
}

// Subscribe registers fn for every change of a view's state, including a
// view switch. It returns a function that removes fn.
func (o *Orchestrator) Subscribe(fn func(ViewState)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// Close leaves the dashboard and waits for background loads to return.
func (o *Orchestrator) Close() {
	o.Leave()
	o.wg.Wait()
}

// listenerList returns listeners in subscription order. Callers hold o.mu.
func (o *Orchestrator) listenerList() []func(ViewState) {
	ids := make([]int, 0, len(o.listeners))
	for id := range o.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(ViewState), 0, len(ids))
	for _, id := range ids {
		out = append(out, o.listeners[id])
	}
	return out
}

func notify(listeners []func(ViewState), st ViewState) {
	for _, fn := range listeners {
		fn(st)
	}
}

func errInactive() error {
	return rerrors.New(rerrors.ErrProbe, "Dashboard is not active",
		"Enter the dashboard after the connection check succeeds")
}
