package beacon

import (
	"time"

	"github.com/mossbeacon/beacon/internal"
)

// TimestampedValue pairs a written value with the clock reading at the
// moment it was accepted.
type TimestampedValue[T any] struct {
	Value T
	At    time.Time
}

// Timestamped is a writable whose committed value always carries the clock
// reading at acceptance time (§4.7).
type Timestamped[T any] struct {
	rt    *Runtime
	p     *internal.Producer
	clock Clock
}

// NewTimestamped creates a timestamped cell seeded with initial, stamped
// with clock.Now() at construction.
func NewTimestamped[T any](rt *Runtime, initial T, opts ...WritableOption) *Timestamped[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("timestamped")
	}

	t := &Timestamped[T]{rt: rt, p: internal.NewProducer(name), clock: rt.clock}
	t.p.Stage(TimestampedValue[T]{Value: initial, At: t.clock.Now()}, true)
	t.p.Commit()
	return t
}

// Name returns the diagnostic label.
func (t *Timestamped[T]) Name() string { return t.p.Name }

// Read returns the current (value, timestamp) pair, tracked.
func (t *Timestamped[T]) Read() TimestampedValue[T] {
	t.rt.rt.Tracker().Track(t.p)
	return as[TimestampedValue[T]](t.p.Value())
}

// Peek implements Cell.
func (t *Timestamped[T]) Peek() any { return t.p.Value() }

// Set stamps v with the current clock reading and writes it, equality-gated
// on the value (not the timestamp) unless force is set.
func (t *Timestamped[T]) Set(v T, force ...bool) {
	forced := len(force) > 0 && force[0]
	cur := as[TimestampedValue[T]](t.p.Value())
	if !forced && !t.p.IsEmpty() && isComparableEqual(cur.Value, v) {
		return
	}
	commitWrite(t.rt, t.p, TimestampedValue[T]{Value: v, At: t.clock.Now()}, true)
}

func isComparableEqual[T any](a, b T) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return any(a) == any(b)
}

// ListenersCount reports active Subscribe registrations.
func (t *Timestamped[T]) ListenersCount() int { return t.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever been written.
func (t *Timestamped[T]) IsEmpty() bool { return t.p.IsEmpty() }

// Dispose tears the cell down.
func (t *Timestamped[T]) Dispose() { t.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (t *Timestamped[T]) OnDispose(fn func()) { t.p.OnDispose(fn) }

// Subscribe registers fn to run whenever the value changes.
func (t *Timestamped[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(t.p, fn, opts)
}
