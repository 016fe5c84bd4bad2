package beacon

import (
	"time"

	"github.com/mossbeacon/beacon/internal"
)

// Debounced is a writable-like cell that delays each write by duration,
// restarting the timer on every subsequent write; only the last pending
// value within a quiet period ever becomes visible (§4.7, S2).
type Debounced[T any] struct {
	rt       *Runtime
	p        *internal.Producer
	clock    Clock
	duration time.Duration

	pending T
	cancel  CancelFunc
}

// NewDebounced creates a debounced cell seeded with initial, using rt's
// clock to schedule the delayed commit.
func NewDebounced[T any](rt *Runtime, initial T, duration time.Duration, opts ...WritableOption) *Debounced[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("debounced")
	}

	d := &Debounced[T]{rt: rt, p: internal.NewProducer(name), clock: rt.clock, duration: duration}
	d.p.Stage(initial, true)
	d.p.Commit()
	return d
}

// Name returns the diagnostic label.
func (d *Debounced[T]) Name() string { return d.p.Name }

// Read returns the current (committed) value, tracked.
func (d *Debounced[T]) Read() T {
	d.rt.rt.Tracker().Track(d.p)
	return as[T](d.p.Value())
}

// PeekValue returns the current (committed) value, untracked.
func (d *Debounced[T]) PeekValue() T { return as[T](d.p.Value()) }

// Peek implements Cell.
func (d *Debounced[T]) Peek() any { return d.p.Value() }

// Set arms (or re-arms) the debounce timer with v as the pending value.
// Routed through SyncCall: under RealClock, commit below runs on the
// timer's own goroutine, and without this Set's writes to pending/cancel
// would race it the moment a callback fires concurrently with a new Set.
func (d *Debounced[T]) Set(v T) {
	d.rt.rt.SyncCall(func() {
		d.pending = v
		if d.cancel != nil {
			d.cancel()
		}
		d.cancel = d.clock.AfterFunc(d.duration, d.commit)
	})
}

func (d *Debounced[T]) commit() {
	d.rt.rt.SyncCall(func() {
		commitWrite(d.rt, d.p, d.pending, false)
	})
}

// ListenersCount reports active Subscribe registrations.
func (d *Debounced[T]) ListenersCount() int { return d.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever committed a value.
func (d *Debounced[T]) IsEmpty() bool { return d.p.IsEmpty() }

// Dispose cancels any pending timer and tears the cell down.
func (d *Debounced[T]) Dispose() {
	if d.cancel != nil {
		d.cancel()
	}
	d.p.Dispose()
}

// OnDispose registers fn to run once, when Dispose executes.
func (d *Debounced[T]) OnDispose(fn func()) { d.p.OnDispose(fn) }

// Subscribe registers fn to run whenever the debounced value commits.
func (d *Debounced[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(d.p, fn, opts)
}
