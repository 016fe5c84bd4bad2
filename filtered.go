package beacon

import "github.com/mossbeacon/beacon/internal"

// Filtered is a writable cell guarded by a mutable predicate: a write is
// accepted iff predicate(prev, next) is true, the cell is still empty
// (first write always passes), or force is set (§4.7).
type Filtered[T any] struct {
	rt   *Runtime
	p    *internal.Producer
	pred func(prev, next T) bool
}

// NewFiltered creates a filtered cell with no initial value; predicate may
// be replaced later via SetPredicate.
func NewFiltered[T any](rt *Runtime, predicate func(prev, next T) bool, opts ...WritableOption) *Filtered[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("filtered")
	}
	return &Filtered[T]{rt: rt, p: internal.NewProducer(name), pred: predicate}
}

// Name returns the diagnostic label.
func (f *Filtered[T]) Name() string { return f.p.Name }

// Read returns the current value, tracked. Panics with ErrLazyRead if no
// write has ever been accepted.
func (f *Filtered[T]) Read() T {
	f.rt.rt.Tracker().Track(f.p)
	v, ok := f.p.Peek()
	if !ok {
		panic(wrapErr(ErrLazyRead, f.p.Name))
	}
	return as[T](v)
}

// Peek implements Cell.
func (f *Filtered[T]) Peek() any {
	v, ok := f.p.Peek()
	if !ok {
		return nil
	}
	return v
}

// SetPredicate replaces the acceptance predicate used by future writes.
func (f *Filtered[T]) SetPredicate(predicate func(prev, next T) bool) { f.pred = predicate }

// Set writes v if the predicate accepts it (or the cell is empty, or force
// is set); otherwise it is silently dropped.
func (f *Filtered[T]) Set(v T, force ...bool) {
	forced := len(force) > 0 && force[0]

	if !f.p.IsEmpty() && !forced {
		prev := as[T](f.p.Value())
		if f.pred != nil && !f.pred(prev, v) {
			return
		}
	}

	commitWrite(f.rt, f.p, v, forced)
}

// ListenersCount reports active Subscribe registrations.
func (f *Filtered[T]) ListenersCount() int { return f.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever accepted a write.
func (f *Filtered[T]) IsEmpty() bool { return f.p.IsEmpty() }

// Dispose tears the cell down.
func (f *Filtered[T]) Dispose() { f.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (f *Filtered[T]) OnDispose(fn func()) { f.p.OnDispose(fn) }

// Subscribe registers fn to run whenever a write is accepted.
func (f *Filtered[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(f.p, fn, opts)
}
