package beacon

import "github.com/mossbeacon/beacon/internal"

// Derived is a producer whose value is a pure function of
// other cells (§4.4). It is also a Consumer: its compute body runs under
// dependency tracking, so reading any Writable/Derived/AsyncDerived inside
// the body subscribes it automatically.
type Derived[T any] struct {
	rt *Runtime
	c  *internal.Computed

	shouldSleep bool
	sleeping    bool
	compute     func() T
}

// DerivedOption configures a Derived at construction.
type DerivedOption func(*derivedConfig)

type derivedConfig struct {
	name               string
	supportConditional bool
	shouldSleep        bool
}

func resolveDerivedOpts(opts []DerivedOption) derivedConfig {
	cfg := derivedConfig{supportConditional: true}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithConditional controls dependency re-tracking (§4.4): true (the default)
// re-tracks every run, so a derivation like `a ? b : c` only ever depends on
// the branch it actually took; false tracks once, on the first run.
func WithConditional(supportConditional bool) DerivedOption {
	return func(c *derivedConfig) { c.supportConditional = supportConditional }
}

// WithSleep enables sleep-when-unwatched (§4.4): once external listener
// count drops to zero, the cell drops its dependencies and its value; the
// next read or subscription re-establishes both.
func WithSleep() DerivedOption {
	return func(c *derivedConfig) { c.shouldSleep = true }
}

// NewDerived creates a cell computing compute() under dependency tracking.
// The body runs once, synchronously, during construction to establish the
// initial value and dependency set (matching Writable's eager-initialization
// contract), with or without WithSleep: a WithSleep cell only goes to sleep
// once its last subscriber leaves.
func NewDerived[T any](rt *Runtime, compute func() T, opts ...DerivedOption) *Derived[T] {
	cfg := resolveDerivedOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("derived")
	}

	d := &Derived[T]{rt: rt, shouldSleep: cfg.shouldSleep, compute: compute}

	body := func(*internal.Computed) (any, error) {
		var out T
		var panicked any
		func() {
			defer func() { panicked = recover() }()
			out = compute()
		}()
		if panicked != nil {
			if err, ok := panicked.(error); ok {
				return nil, err
			}
			panic(panicked)
		}
		return out, nil
	}

	d.c = internal.NewComputed(rt.rt, name, cfg.supportConditional, body)
	d.c.RunNow()
	rt.registerNode(name, func() []string {
		var out []string
		for dep := range d.c.Deps() {
			out = append(out, dep.Name)
		}
		return out
	})
	return d
}

// Name returns the diagnostic label.
func (d *Derived[T]) Name() string { return d.c.Name }

func (d *Derived[T]) ensureAwake() {
	if d.sleeping {
		d.sleeping = false
		d.c.RunNow()
	}
}

// Read returns the current value, waking a sleeping cell and registering a
// dependency on the current computation if one is executing.
func (d *Derived[T]) Read() T {
	d.ensureAwake()
	d.rt.rt.Tracker().Track(d.c.Producer)
	return as[T](d.c.Value())
}

// PeekValue reads the current value without registering a dependency,
// waking a sleeping cell first.
func (d *Derived[T]) PeekValue() T {
	d.ensureAwake()
	return as[T](d.c.Value())
}

// Peek implements Cell.
func (d *Derived[T]) Peek() any {
	d.ensureAwake()
	v, ok := d.c.Peek()
	if !ok {
		return nil
	}
	return v
}

// LastError returns the error raised by the most recent compute run, if any
// (§7 propagation policy: surfaced to callers, graph otherwise intact).
func (d *Derived[T]) LastError() error { return d.c.LastError() }

// ListenersCount reports active Subscribe registrations.
func (d *Derived[T]) ListenersCount() int { return d.c.Listeners().Len() }

// IsEmpty reports whether the cell has ever produced a value.
func (d *Derived[T]) IsEmpty() bool { return d.c.IsEmpty() }

// Dispose tears the cell down.
func (d *Derived[T]) Dispose() { d.c.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (d *Derived[T]) OnDispose(fn func()) { d.c.OnDispose(fn) }

// Subscribe registers fn to run whenever the computed value changes. A
// sleeping derivation wakes on the first Subscribe call, matching the
// "next read or subscription" wake trigger in §4.4; the last Subscribe
// dropping listener count to zero puts a shouldSleep cell back to sleep.
func (d *Derived[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	d.ensureAwake()
	dispose := subscribe(d.c.Producer, fn, opts)
	return func() {
		dispose()
		if d.shouldSleep && d.c.Listeners().Len() == 0 {
			d.sleep()
		}
	}
}

func (d *Derived[T]) sleep() {
	if d.sleeping {
		return
	}
	d.sleeping = true
	d.c.Suspend()
}
