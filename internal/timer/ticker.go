package timer

import (
	"sync"
	"time"
)

// DefaultTickInterval is the repaint cadence of a live counter.
const DefaultTickInterval = time.Second

// TickInput is what a display knows about the session it shows.
type TickInput struct {
	Start    time.Time
	Snapshot Snapshot
}

// Tick is one published display value.
type Tick struct {
	Elapsed time.Duration
	Clock   string
	Status  Status
	At      time.Time
}

// TickerOption configures a Ticker.
type TickerOption func(*Ticker)

// WithInterval overrides the tick interval.
func WithInterval(d time.Duration) TickerOption {
	return func(t *Ticker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithClock overrides the wall clock used to compute each tick.
func WithClock(now func() time.Time) TickerOption {
	return func(t *Ticker) {
		if now != nil {
			t.now = now
		}
	}
}

// Ticker drives one live counter. It owns at most one interval for its
// lifetime: Start is a no-op once called, and after Stop returns publish is
// never invoked again.
//
// Ticker does not know about pauses. A paused session keeps ticking and
// LiveElapsed keeps returning the same value.
type Ticker struct {
	mu       sync.Mutex
	input    TickInput
	interval time.Duration
	now      func() time.Time
	publish  func(Tick)

	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewTicker creates a stopped Ticker that will call publish on every tick.
// publish runs on the ticker goroutine and must not call Stop.
func NewTicker(input TickInput, publish func(Tick), opts ...TickerOption) *Ticker {
	t := &Ticker{
		input:    input,
		interval: DefaultTickInterval,
		now:      time.Now,
		publish:  publish,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start publishes the current value immediately and then once per
// interval. If the session is already stopped only that first value is
// published.
func (t *Ticker) Start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	go t.run()
}

// Update replaces the session data used for subsequent ticks, typically
// after a refetch.
func (t *Ticker) Update(input TickInput) {
	t.mu.Lock()
	t.input = input
	t.mu.Unlock()
}

// Stop cancels the interval and waits for the ticker goroutine to exit.
// It is safe to call more than once, and before Start.
func (t *Ticker) Stop() {
	t.mu.Lock()
	select {
	case <-t.stop:
		// Already stopped.
		t.mu.Unlock()
		return
	default:
		close(t.stop)
	}
	started := t.started
	t.started = true // a later Start must not spawn a goroutine
	t.mu.Unlock()

	if !started {
		close(t.done)
		return
	}
	<-t.done
}

// Done is closed once the ticker goroutine has exited, either through Stop
// or because the session reached a terminal state.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

func (t *Ticker) run() {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	if !t.fire() {
		return
	}
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if !t.fire() {
				return
			}
		}
	}
}

// fire publishes one tick and reports whether ticking should continue.
func (t *Ticker) fire() bool {
	select {
	case <-t.stop:
		return false
	default:
	}

	t.mu.Lock()
	input := t.input
	now := t.now()
	t.mu.Unlock()

	elapsed := LiveElapsed(input.Start, now, input.Snapshot)
	if t.publish != nil {
		t.publish(Tick{
			Elapsed: elapsed,
			Clock:   FormatClock(elapsed),
			Status:  input.Snapshot.Status,
			At:      now,
		})
	}
	return !input.Snapshot.IsTerminal()
}
