package beacon

import "github.com/mossbeacon/beacon/internal"

// Disposer releases a subscription or a cell. Every disposer returned by
// this package is idempotent: calling it twice is a no-op (§5 Resource
// discipline).
type Disposer func()

// Cell is the surface every handle in this package implements (§6 External
// Interfaces): "value (read, tracked), peek (read, untracked), subscribe,
// listenersCount, isEmpty, dispose, onDispose, name".
type Cell interface {
	// Name returns the diagnostic label assigned at construction.
	Name() string

	// Peek reads the current value without registering a dependency.
	Peek() any

	// ListenersCount reports how many external subscribers are currently
	// registered (via Subscribe), not counting reactive dependents.
	ListenersCount() int

	// IsEmpty reports whether the cell has never produced a value.
	IsEmpty() bool

	// Dispose tears the cell down. Idempotent.
	Dispose()

	// OnDispose registers a hook to run when Dispose executes.
	OnDispose(fn func())

	// Subscribe registers fn to run on every subsequent change, returning a
	// disposer that cancels the subscription.
	Subscribe(fn func(), opts ...SubscribeOption) Disposer
}

// SubscribeOption configures a Subscribe call.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	startNow   bool
	synchronous bool
}

// WithStartNow runs the callback immediately (with the cell's current
// value already established) in addition to on every later change.
func WithStartNow() SubscribeOption { return func(c *subscribeConfig) { c.startNow = true } }

// WithSynchronous registers the callback at EffectSync priority instead of
// EffectUser, so it observes a settled graph before ordinary user effects
// run (§4.12's ambient sync/user effect-priority split).
func WithSynchronous() SubscribeOption { return func(c *subscribeConfig) { c.synchronous = true } }

func resolveSubscribeOpts(opts []SubscribeOption) subscribeConfig {
	var cfg subscribeConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// subscribe registers fn against p's external listener registry at the
// priority cfg requests, optionally invoking it once immediately, and
// returns an idempotent disposer. Every cell type's Subscribe method funnels
// through this one helper so the start-now/priority/dispose contract stays
// identical across Writable, Derived, the collection cells, and so on.
// Notification itself happens through Runtime.Flush's commit loop (see
// internal/runtime.go), which calls Registry.NotifyPriority once per
// priority pass after a producer's staged value actually commits — so a
// subscriber never fires for a no-op write.
func subscribe(p *internal.Producer, fn func(), opts []SubscribeOption) Disposer {
	cfg := resolveSubscribeOpts(opts)
	id := p.Listeners().Add(fn, priorityFor(cfg.synchronous))
	if cfg.startNow && !p.IsEmpty() {
		fn()
	}

	var disposed bool
	return func() {
		if disposed {
			return
		}
		disposed = true
		p.Listeners().Remove(id)
	}
}

func priorityFor(synchronous bool) internal.EffectPriority {
	if synchronous {
		return internal.EffectSync
	}
	return internal.EffectUser
}

// commitWrite stages v onto p and, if the write actually changed anything,
// enqueues the commit and schedules p's dependents. Every mutator in this
// package (Writable.Set, the time operators' timer callbacks, the
// collection cells, ...) funnels through this one helper so the
// circular-dependency check below only needs to live in one place.
//
// Per §4.1/§7: a write that would re-notify the computation currently
// running (a writable set from inside an effect or derived body that reads
// it) is a same-tick cycle, not a legitimate propagation step. Rather than
// spin the scheduler's maxFlushIterations backstop down to
// ErrInfiniteUpdateLoop, this is caught immediately and raised as
// ErrCircularDependency; the body wrappers in derived.go and
// internal/effect.go recover that error panic and return it as the running
// computation's LastError, so the graph remains usable afterward.
func commitWrite(rt *Runtime, p *internal.Producer, v any, force bool) {
	if cur := rt.rt.CurrentComputation(); cur != nil {
		for sub := range p.Subs() {
			if sub == cur {
				panic(wrapErr(ErrCircularDependency, p.Name))
			}
		}
	}
	if !p.Stage(v, force) {
		return
	}
	rt.rt.EnqueueCommit(p)
	rt.rt.ScheduleSubs(p)
}
