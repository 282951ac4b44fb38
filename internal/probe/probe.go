// Package probe runs the staged connectivity check. A run reports a fixed
// sequence of paced phases, then performs one real connection-status query
// bounded by a timeout, and ends Connected, Disconnected, or Failed.
package probe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	rerrors "github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/logger"
	"github.com/rileyhilliard/infradash/internal/resource"
)

// DefaultStepDelay is the pause after each phase.
const DefaultStepDelay = 800 * time.Millisecond

// Checker performs the real connectivity query. delay is passed through to
// the backend, which uses it to decide whether it reports connected.
type Checker interface {
	ConnectionStatus(ctx context.Context, delay time.Duration) (*resource.ConnectionStatus, error)
}

// Sleeper pauses for d or until ctx is done, returning ctx.Err() in the latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the real Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Observer is told about every finished run.
type Observer interface {
	ProbeFinished(c Check)
}

// Option configures a Probe.
type Option func(*Probe)

// WithPhases replaces the default phases.
func WithPhases(phases []Phase) Option {
	return func(p *Probe) {
		p.phases = append([]Phase(nil), phases...)
	}
}

// WithStepDelay sets the pause after each phase.
func WithStepDelay(d time.Duration) Option {
	return func(p *Probe) { p.stepDelay = d }
}

// WithSleeper replaces the pacing function, typically with a fake in tests.
func WithSleeper(s Sleeper) Option {
	return func(p *Probe) { p.sleep = s }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Probe) { p.log = l }
}

// WithObserver registers an observer for finished runs.
func WithObserver(o Observer) Option {
	return func(p *Probe) { p.observer = o }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Probe) { p.now = now }
}

// Probe owns the single live connection check.
//
// Listener calls are serialized by notifyMu, and Start takes notifyMu before
// replacing the run, so once Start (or Retry/Stop) returns no notification
// from an earlier run can fire. Listeners therefore must not call Start,
// Retry, or Stop synchronously.
type Probe struct {
	checker   Checker
	phases    []Phase
	stepDelay time.Duration
	sleep     Sleeper
	log       logger.Logger
	observer  Observer
	now       func() time.Time

	notifyMu sync.Mutex

	mu        sync.Mutex
	gen       uint64
	cur       Check
	cancel    context.CancelFunc
	done      chan struct{}
	listeners map[int]func(Check)
	nextID    int
}

// New creates an idle probe.
func New(checker Checker, opts ...Option) *Probe {
	p := &Probe{
		checker:   checker,
		phases:    DefaultPhases(),
		stepDelay: DefaultStepDelay,
		sleep:     SleepContext,
		log:       logger.Noop(),
		now:       time.Now,
		listeners: make(map[int]func(Check)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.done = closedChan()
	return p
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Subscribe registers fn for every state change and returns a function that
// removes it. fn receives a copy of the check and is never called concurrently
// with another notification.
func (p *Probe) Subscribe(fn func(Check)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Current returns a copy of the live check.
func (p *Probe) Current() Check {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

// Start discards any previous run and begins a new one. It never fails:
// a non-positive timeout produces a Failed check with ReasonInvalid.
func (p *Probe) Start(timeout time.Duration) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	p.stopLocked()
	p.gen++
	gen := p.gen

	check := Check{
		ID:        uuid.NewString(),
		Status:    Checking,
		Message:   MsgStarting,
		StartedAt: p.now(),
	}

	if timeout <= 0 {
		check.Status = Failed
		check.Reason = ReasonInvalid
		check.Message = fmt.Sprintf("Invalid timeout %s: must be positive", timeout)
		check.FinishedAt = check.StartedAt
		p.cur = check
		p.done = closedChan()
		listeners := p.listenerList()
		p.mu.Unlock()

		p.log.Warn("probe %s rejected: %s", check.ID, check.Message)
		notify(listeners, check)
		p.finished(check)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.cur = check
	listeners := p.listenerList()
	p.mu.Unlock()

	p.log.Debug("probe %s started (timeout %s)", check.ID, timeout)
	notify(listeners, check)

	go p.run(ctx, gen, timeout, done)
}

// Retry starts a brand-new run, cancelling the pending timers and query of
// the previous one.
func (p *Probe) Retry(timeout time.Duration) {
	p.Start(timeout)
}

// Stop cancels the live run without starting another. The last check is kept.
func (p *Probe) Stop() {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.gen++
}

// stopLocked cancels the live run. Callers hold p.mu.
func (p *Probe) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Wait blocks until the live run reaches a terminal state or is superseded,
// or ctx is done, and returns the check at that point.
func (p *Probe) Wait(ctx context.Context) Check {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return p.Current()
}

// Run starts a check and waits for its outcome.
func (p *Probe) Run(ctx context.Context, timeout time.Duration) Check {
	p.Start(timeout)
	return p.Wait(ctx)
}

func (p *Probe) run(ctx context.Context, gen uint64, timeout time.Duration, done chan struct{}) {
	defer close(done)

	for i, ph := range p.phases {
		idx, phase := i+1, ph
		if !p.update(gen, func(c *Check) {
			c.Progress = phase.Progress
			c.Message = phase.Message
			c.Phase = idx
		}) {
			return
		}
		if err := p.sleep(ctx, p.stepDelay); err != nil {
			return
		}
	}

	st, err := p.query(ctx, timeout)
	if ctx.Err() != nil {
		// Superseded or stopped; the newer run owns the state.
		return
	}

	var final Check
	p.update(gen, func(c *Check) {
		c.FinishedAt = p.now()
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			c.Status = Failed
			c.Reason = ReasonTimeout
			c.Message = fmt.Sprintf("Connection check timed out after %s", timeout)
			c.Detail = err.Error()
		case err != nil:
			c.Status = Failed
			c.Reason = ReasonTransport
			c.Message = "Connection check failed: " + rerrors.Summary(err)
			c.Detail = err.Error()
		case st.Connected():
			c.Status = Connected
			c.Message = MsgConnected
		default:
			c.Status = Disconnected
			c.Message = MsgDisconnected
			if st != nil && st.Status != "" {
				c.Message = fmt.Sprintf("%s (backend reports %q)", MsgDisconnected, st.Status)
			}
		}
		final = *c
	})

	if final.Status.Terminal() {
		p.log.Debug("probe %s finished: %s in %s", final.ID, final.Status, final.Duration())
		p.finished(final)
	}
}

// query performs the real request. The timeout is enforced here even if the
// checker ignores its context.
func (p *Probe) query(ctx context.Context, timeout time.Duration) (*resource.ConnectionStatus, error) {
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		st  *resource.ConnectionStatus
		err error
	}
	ch := make(chan result, 1)
	go func() {
		st, err := p.checker.ConnectionStatus(qctx, timeout)
		ch <- result{st, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && qctx.Err() != nil {
			return nil, qctx.Err()
		}
		return r.st, r.err
	case <-qctx.Done():
		return nil, qctx.Err()
	}
}

// update applies mutate to a copy of the current check and publishes it,
// unless gen is no longer the live run. It reports whether it published.
func (p *Probe) update(gen uint64, mutate func(c *Check)) bool {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return false
	}
	next := p.cur
	mutate(&next)
	p.cur = next
	listeners := p.listenerList()
	p.mu.Unlock()

	notify(listeners, next)
	return true
}

func (p *Probe) finished(c Check) {
	if p.observer != nil {
		p.observer.ProbeFinished(c)
	}
}

// listenerList returns listeners in subscription order. Callers hold p.mu.
func (p *Probe) listenerList() []func(Check) {
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Check), 0, len(ids))
	for _, id := range ids {
		out = append(out, p.listeners[id])
	}
	return out
}

func notify(listeners []func(Check), c Check) {
	for _, fn := range listeners {
		fn(c)
	}
}
