package beacon

import (
	"time"

	"github.com/mossbeacon/beacon/internal"
)

// Throttled is a writable-like cell that passes the first write through
// immediately then stays "closed" for duration; writes while closed are
// either dropped (dropBlocked) or queued in a FIFO drained one per tick
// (§4.7, S3).
type Throttled[T any] struct {
	rt       *Runtime
	p        *internal.Producer
	clock    Clock
	duration time.Duration

	dropBlocked bool
	open        bool
	queue       []T
	cancel      CancelFunc
}

// ThrottledOption configures a Throttled cell.
type ThrottledOption func(*throttledConfig)

type throttledConfig struct {
	writableConfig
	dropBlocked bool
}

func resolveThrottledOpts(opts []ThrottledOption) throttledConfig {
	var cfg throttledConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithDropBlocked discards writes received while closed instead of
// queueing them.
func WithDropBlocked() ThrottledOption {
	return func(c *throttledConfig) { c.dropBlocked = true }
}

// WithThrottledName assigns a diagnostic label.
func WithThrottledName(name string) ThrottledOption {
	return func(c *throttledConfig) { c.name = name }
}

// NewThrottled creates a throttled cell seeded with initial, open from
// construction (the first Set passes straight through).
func NewThrottled[T any](rt *Runtime, initial T, duration time.Duration, opts ...ThrottledOption) *Throttled[T] {
	cfg := resolveThrottledOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("throttled")
	}

	t := &Throttled[T]{rt: rt, p: internal.NewProducer(name), clock: rt.clock, duration: duration, dropBlocked: cfg.dropBlocked, open: true}
	t.p.Stage(initial, true)
	t.p.Commit()
	return t
}

// Name returns the diagnostic label.
func (t *Throttled[T]) Name() string { return t.p.Name }

// Read returns the current value, tracked.
func (t *Throttled[T]) Read() T {
	t.rt.rt.Tracker().Track(t.p)
	return as[T](t.p.Value())
}

// PeekValue returns the current value, untracked.
func (t *Throttled[T]) PeekValue() T { return as[T](t.p.Value()) }

// Peek implements Cell.
func (t *Throttled[T]) Peek() any { return t.p.Value() }

// Set writes v: passed straight through if open (and closes the gate for
// duration), otherwise dropped or queued per dropBlocked. Routed through
// SyncCall: under RealClock, onElapsed runs on the timer's own goroutine
// and shares open/queue/cancel with Set, which would otherwise race it.
func (t *Throttled[T]) Set(v T) {
	t.rt.rt.SyncCall(func() {
		if t.open {
			t.stage(v)
			t.close()
			return
		}
		if t.dropBlocked {
			return
		}
		t.queue = append(t.queue, v)
	})
}

func (t *Throttled[T]) close() {
	t.open = false
	t.cancel = t.clock.AfterFunc(t.duration, t.onElapsed)
}

func (t *Throttled[T]) onElapsed() {
	t.rt.rt.SyncCall(func() {
		if len(t.queue) == 0 {
			t.open = true
			return
		}
		head := t.queue[0]
		t.queue = t.queue[1:]
		t.stage(head)
		t.cancel = t.clock.AfterFunc(t.duration, t.onElapsed)
	})
}

// stage commits v to the producer. Callers must already hold asyncMu (via
// SyncCall).
func (t *Throttled[T]) stage(v T) {
	commitWrite(t.rt, t.p, v, false)
}

// ListenersCount reports active Subscribe registrations.
func (t *Throttled[T]) ListenersCount() int { return t.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever committed a value.
func (t *Throttled[T]) IsEmpty() bool { return t.p.IsEmpty() }

// Dispose cancels any pending timer and tears the cell down.
func (t *Throttled[T]) Dispose() {
	if t.cancel != nil {
		t.cancel()
	}
	t.p.Dispose()
}

// OnDispose registers fn to run once, when Dispose executes.
func (t *Throttled[T]) OnDispose(fn func()) { t.p.OnDispose(fn) }

// Subscribe registers fn to run whenever the throttled value changes.
func (t *Throttled[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(t.p, fn, opts)
}
