package beacon

import "github.com/mossbeacon/beacon/internal"

// as unboxes a value of unknown dynamic type into T, returning the zero
// value for a nil box (grounded on the teacher's sig.go `as` helper).
func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Writable is a producer that accepts external writes, equality-gated
// unless Force is requested (§4.3).
type Writable[T any] struct {
	rt *Runtime
	p  *internal.Producer
}

// WritableOption configures a Writable at construction.
type WritableOption func(*writableConfig)

type writableConfig struct {
	name string
}

// WithName assigns a diagnostic label, overriding the auto-generated one.
func WithName(name string) WritableOption {
	return func(c *writableConfig) { c.name = name }
}

func resolveWritableOpts(opts []WritableOption) writableConfig {
	var cfg writableConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// NewWritable creates a writable cell holding initial.
func NewWritable[T any](rt *Runtime, initial T, opts ...WritableOption) *Writable[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("writable")
	}

	w := &Writable[T]{rt: rt, p: internal.NewProducer(name)}
	w.p.Stage(initial, true)
	w.p.Commit()
	return w
}

// Name returns the diagnostic label.
func (w *Writable[T]) Name() string { return w.p.Name }

// Read returns the current value, registering a dependency on the current
// computation if one is executing. Panics with a *BeaconError wrapping
// ErrLazyRead if the cell has never been written.
func (w *Writable[T]) Read() T {
	w.rt.rt.Tracker().Track(w.p)
	v, ok := w.p.Peek()
	if !ok {
		panic(wrapErr(ErrLazyRead, w.p.Name))
	}
	return as[T](v)
}

// PeekValue reads the current value without registering a dependency.
// Panics like Read if the cell is empty.
func (w *Writable[T]) PeekValue() T {
	v, ok := w.p.Peek()
	if !ok {
		panic(wrapErr(ErrLazyRead, w.p.Name))
	}
	return as[T](v)
}

// Peek implements Cell: an untracked read that returns nil instead of
// panicking when empty, suitable for generic diagnostics.
func (w *Writable[T]) Peek() any {
	v, ok := w.p.Peek()
	if !ok {
		return nil
	}
	return v
}

// Set writes v. Equality-gated against the current value unless force is
// passed as true; a no-op write never notifies (§8 invariant 3). The first
// write to an empty cell always applies, establishing InitialValue.
func (w *Writable[T]) Set(v T, force ...bool) {
	f := len(force) > 0 && force[0]
	w.write(v, f)
}

func (w *Writable[T]) write(v T, force bool) {
	commitWrite(w.rt, w.p, v, force)
}

// Reset sets the value back to InitialValue (equality-gated, like any other
// Set). Returns ErrUninitialized if the cell has never been written.
func (w *Writable[T]) Reset() error {
	if w.p.IsEmpty() {
		return wrapErr(ErrUninitialized, w.p.Name)
	}
	w.write(as[T](w.p.InitialValue()), false)
	return nil
}

// ListenersCount reports the number of active Subscribe registrations.
func (w *Writable[T]) ListenersCount() int { return w.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever been written.
func (w *Writable[T]) IsEmpty() bool { return w.p.IsEmpty() }

// Dispose tears the cell down: clears listeners, runs dispose hooks, and
// resets the value to InitialValue. Idempotent.
func (w *Writable[T]) Dispose() { w.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (w *Writable[T]) OnDispose(fn func()) { w.p.OnDispose(fn) }

// Subscribe registers fn to run whenever the value changes (and, with
// WithStartNow, once immediately). WithSynchronous moves fn into the sync
// effect pass, ahead of ordinary user-level subscribers and effects.
func (w *Writable[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(w.p, fn, opts)
}
