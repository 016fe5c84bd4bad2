package beacon

import (
	"context"

	"github.com/mossbeacon/beacon/internal"
)

// AsyncDerived is a producer of AsyncValue[T] wrapping an async compute
// (§4.6). body runs synchronously, under dependency tracking, each time any
// of its reads change; it returns the deferred "future" half as a plain Go
// closure, which then runs on its own goroutine. This mirrors the spec's
// synchronous-prefix-then-await shape without requiring true coroutines:
// the tracked reads happen in body itself, and whatever they captured is
// closed over by the returned func for the async continuation to use.
type AsyncDerived[T any] struct {
	rt   *Runtime
	p    *internal.Producer
	body func() func(context.Context) (T, error)

	manualStart   bool
	cancelRunning bool

	started  bool
	token    int64
	cancelFn context.CancelFunc
	trigger  *internal.EffectNode
}

// AsyncDerivedOption configures an AsyncDerived at construction.
type AsyncDerivedOption func(*asyncDerivedConfig)

type asyncDerivedConfig struct {
	name          string
	manualStart   bool
	cancelRunning bool
}

func resolveAsyncDerivedOpts(opts []AsyncDerivedOption) asyncDerivedConfig {
	var cfg asyncDerivedConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithManualStart defers the first run until Start is called explicitly;
// the cell's state is AsyncIdle until then.
func WithManualStart() AsyncDerivedOption {
	return func(c *asyncDerivedConfig) { c.manualStart = true }
}

// WithCancelRunning cancels the context passed to a superseded run's
// compute when a dependency changes mid-flight, instead of merely ignoring
// its eventual result.
func WithCancelRunning() AsyncDerivedOption {
	return func(c *asyncDerivedConfig) { c.cancelRunning = true }
}

// WithAsyncName assigns a diagnostic label, overriding the auto-generated
// one.
func WithAsyncName(name string) AsyncDerivedOption {
	return func(c *asyncDerivedConfig) { c.name = name }
}

// NewAsyncDerived creates an async derivation. body is invoked synchronously
// under tracking on construction (unless WithManualStart is set) and again
// whenever a tracked dependency changes; each invocation's returned func
// runs on its own goroutine, and only the result of the most recently
// started run is ever committed (latest-wins, §4.6).
func NewAsyncDerived[T any](rt *Runtime, body func() func(context.Context) (T, error), opts ...AsyncDerivedOption) *AsyncDerived[T] {
	cfg := resolveAsyncDerivedOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("async-derived")
	}

	d := &AsyncDerived[T]{
		rt:            rt,
		p:             internal.NewProducerWithValue(name, idleAsync[T]()),
		body:          body,
		manualStart:   cfg.manualStart,
		cancelRunning: cfg.cancelRunning,
	}

	triggerBody := func() func() {
		future := d.body()
		return d.launch(context.Background(), future)
	}

	if cfg.manualStart {
		// Construct the effect lazily: internal.NewEffect always runs its
		// body once synchronously, which would violate manualStart's "no
		// compute until Start()" contract. Start() creates it on first call.
		return d
	}

	d.trigger = internal.NewEffect(rt.rt, name+"-trigger", internal.EffectSync, true, triggerBody)
	d.started = true
	return d
}

// launch bumps the run token, transitions to Loading, and starts future on
// its own goroutine, returning the cleanup internal.NewEffect will run
// before the next trigger run (or on Dispose): cancel the context if
// cancelRunning was requested. base is the parent context for the
// continuation — context.Background() for the ordinary dependency-tracked
// trigger, or a caller-supplied context for Run.
func (d *AsyncDerived[T]) launch(base context.Context, future func(context.Context) (T, error)) func() {
	prev := d.snapshotPrevious()

	var myToken int64
	d.rt.rt.SyncCall(func() {
		d.token++
		myToken = d.token
	})

	ctx := base
	var cancel context.CancelFunc
	if d.cancelRunning {
		ctx, cancel = context.WithCancel(ctx)
	}
	d.cancelFn = cancel

	d.setState(loadingAsync(prev))

	go func() {
		value, err := future(ctx)
		d.rt.rt.SyncCall(func() {
			if myToken != d.token {
				return // superseded: latest-wins drops this result
			}
			if err != nil {
				d.setState(errorAsync[T](err, prev))
			} else {
				d.setState(dataAsync(value))
			}
		})
	}()

	return func() {
		if cancel != nil {
			cancel()
		}
	}
}

func (d *AsyncDerived[T]) snapshotPrevious() *T {
	cur, ok := d.p.Peek()
	if !ok {
		return nil
	}
	av := cur.(AsyncValue[T])
	if v, ok := av.Data(); ok {
		return &v
	}
	return av.Previous
}

func (d *AsyncDerived[T]) setState(v AsyncValue[T]) {
	commitWrite(d.rt, d.p, v, true)
}

// Start triggers the first run for a WithManualStart cell. A no-op on any
// later call, and on a cell not created with WithManualStart.
func (d *AsyncDerived[T]) Start() {
	if d.started {
		return
	}
	d.started = true
	triggerBody := func() func() {
		future := d.body()
		return d.launch(context.Background(), future)
	}
	d.trigger = internal.NewEffect(d.rt.rt, d.p.Name+"-trigger", internal.EffectSync, true, triggerBody)
}

// Run triggers a manual run of body using ctx as the base context for the
// returned future, instead of context.Background(): the caller controls
// cancellation/deadline directly (tying the run to an incoming request's
// context, say). If the cell was built WithCancelRunning, a run already in
// flight is canceled first, exactly like a dependency-triggered re-run
// would cancel it; without that option the previous run is left to finish
// and its result is simply dropped by the latest-wins token check, same as
// any other superseded run. Distinct from Start, which installs the
// ordinary dependency-tracked trigger effect; Run can be called repeatedly
// on any AsyncDerived, WithManualStart or not.
func (d *AsyncDerived[T]) Run(ctx context.Context) {
	if d.cancelFn != nil {
		d.cancelFn()
	}
	future := d.body()
	d.launch(ctx, future)
}

// Name returns the diagnostic label.
func (d *AsyncDerived[T]) Name() string { return d.p.Name }

// Status returns the current AsyncValue, tracked.
func (d *AsyncDerived[T]) Status() AsyncValue[T] {
	d.rt.rt.Tracker().Track(d.p)
	return as[AsyncValue[T]](d.p.Value())
}

// Read returns the current AsyncValue, tracked — an alias for Status
// matching the Read/Peek naming every other cell in this package uses.
func (d *AsyncDerived[T]) Read() AsyncValue[T] { return d.Status() }

// Peek reads the current AsyncValue without registering a dependency.
func (d *AsyncDerived[T]) Peek() any { return d.p.Value() }

// ListenersCount reports active Subscribe registrations.
func (d *AsyncDerived[T]) ListenersCount() int { return d.p.Listeners().Len() }

// IsEmpty always reports false: an AsyncDerived is never lazily-uninitialized,
// its initial state is AsyncIdle.
func (d *AsyncDerived[T]) IsEmpty() bool { return false }

// Dispose cancels any in-flight run, clears dependency subscriptions, and
// marks the cell disposed.
func (d *AsyncDerived[T]) Dispose() {
	if d.cancelFn != nil {
		d.cancelFn()
	}
	if d.trigger != nil {
		d.trigger.Dispose()
	}
	d.p.Dispose()
}

// OnDispose registers fn to run once, when Dispose executes.
func (d *AsyncDerived[T]) OnDispose(fn func()) { d.p.OnDispose(fn) }

// Subscribe registers fn to run whenever Status transitions.
func (d *AsyncDerived[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(d.p, fn, opts)
}
