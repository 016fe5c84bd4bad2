package beacon

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mossbeacon/beacon/internal"
)

// Runtime is one isolated reactive graph. Every cell constructor in this
// package takes a *Runtime explicitly — Design Note §9 calls for "a
// per-runtime mutable context object ... not a true global" so a host can
// run several independent graphs (e.g. one per test, or one per tenant) in
// a single process, instead of the teacher's process-wide goroutine-keyed
// singleton.
type Runtime struct {
	rt     *internal.Runtime
	logger *slog.Logger
	clock  Clock
	seq    atomic.Int64

	// debugNodes records every Derived/Effect created on this runtime, by
	// name, together with a thunk reporting its current dependency names —
	// used only by extensions/graphdebug's DebugTree rendering, never on
	// any hot path.
	debugNodes []debugNode

	// pumpOnce/pumpCh back the default async scheduler's dedicated pump
	// goroutine (see defaultMicrotask): started lazily on the first
	// scheduled write, not at New(), so a runtime that only ever uses
	// WithSyncScheduler never spawns one.
	pumpOnce sync.Once
	pumpCh   chan func() error
}

type debugNode struct {
	name string
	deps func() []string
}

func (r *Runtime) registerNode(name string, deps func() []string) {
	r.debugNodes = append(r.debugNodes, debugNode{name: name, deps: deps})
}

// DependencyGraph reports, for every Derived and Effect created on this
// runtime, the names of the producers it currently depends on. Writable,
// time-operator and collection cells never appear as keys (they have no
// dependencies of their own) but do appear as values when something reads
// them.
func (r *Runtime) DependencyGraph() map[string][]string {
	graph := make(map[string][]string, len(r.debugNodes))
	for _, n := range r.debugNodes {
		graph[n.name] = n.deps()
	}
	return graph
}

// Option configures a Runtime at construction, following the functional
// options style used throughout the pack (e.g. go-mizu-mizu's server
// construction, pumped-fn-pumped-go's pool configuration).
type Option func(*Runtime)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithClock overrides the default RealClock used by the runtime's time
// operators and by Settle's timeout.
func WithClock(c Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

// WithSyncScheduler starts the runtime in synchronous mode: every unbatched
// write flushes inline. The default is asynchronous (microtask) mode.
func WithSyncScheduler() Option {
	return func(r *Runtime) { r.rt.UseSync() }
}

// New constructs an empty runtime. Asynchronous scheduling is enabled by
// default (see UseAsync); pass WithSyncScheduler for deterministic,
// synchronous tests.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		rt:     internal.New(),
		logger: slog.Default(),
		clock:  RealClock(),
	}
	r.rt.UseAsync(r.defaultMicrotask)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// defaultMicrotask is the runtime's built-in host microtask hook. Go has no
// real microtask queue, and a bare `go func(){ flush() }()` per Schedule
// call would run the drain on a fresh goroutine every time, racing
// unsynchronized internal scheduler state the moment two writes land close
// together — not a microtask emulation, a real concurrency bug. Instead
// this posts onto a buffered channel drained by one dedicated pump
// goroutine owned by the runtime and started lazily on first use, grounded
// on the drain-loop shape of the pack's joeycumines/go-utilpkg eventloop
// package: every flush request funnels through the same goroutine, so two
// overlapping Schedule calls never run flush concurrently with each other.
func (r *Runtime) defaultMicrotask(flush func() error) {
	r.pumpOnce.Do(func() {
		r.pumpCh = make(chan func() error, 1)
		go r.pump()
	})

	select {
	case r.pumpCh <- flush:
	default:
		// A flush is already queued for the pump goroutine; Flush drains
		// until the scheduler settles, so the pending one will pick up
		// whatever this call would have scheduled too.
	}
}

func (r *Runtime) pump() {
	for flush := range r.pumpCh {
		if err := flush(); err != nil {
			r.logger.Error("beacon: flush failed", "error", err)
		}
	}
}

// UseSync switches to synchronous scheduling: every unbatched write drains
// immediately on the calling goroutine.
func (r *Runtime) UseSync() { r.rt.UseSync() }

// UseAsync switches back to asynchronous (microtask) scheduling.
func (r *Runtime) UseAsync() { r.rt.UseAsync(r.defaultMicrotask) }

// SetScheduler installs a custom microtask hook, letting a host that drives
// its own frame timing (a UI loop, a game tick) flush on its own cadence
// instead of via the default pump goroutine. hook is responsible for
// eventually calling the flush func it is handed exactly once per call, on
// whatever goroutine it chooses.
func (r *Runtime) SetScheduler(hook func(flush func() error)) { r.rt.UseAsync(hook) }

// Flush synchronously drains any pending work right now, regardless of
// scheduling mode. Exposed for tests (and hosts with their own frame loop)
// that need to force a drain.
func (r *Runtime) Flush() error { return r.rt.Flush() }

// Batch coalesces every write performed inside fn into a single flush,
// executed once fn returns (see S1 in §8).
func (r *Runtime) Batch(fn func()) { r.rt.Batch(fn) }

// Untracked executes fn with dependency tracking suspended: reads inside
// fn never register a dependency on the current computation.
func (r *Runtime) Untracked(fn func()) { r.rt.Untracked(fn) }

// OnSettled registers fn to run once, after the runtime's current flush
// completes including its effect passes; if idle, fn runs immediately.
func (r *Runtime) OnSettled(fn func()) { r.rt.OnSettled(fn) }

// Settle returns a channel that receives once the runtime's current flush
// fully completes (at once, if idle), or once d elapses, whichever comes
// first — a blocking-friendly counterpart to OnSettled for callers that
// want to wait rather than register a callback (e.g. a test driving the
// default async scheduler). The channel is always closed exactly once,
// whether by settling or by timing out.
func (r *Runtime) Settle(d time.Duration) <-chan struct{} {
	done := make(chan struct{})
	var once sync.Once
	signal := func() { once.Do(func() { close(done) }) }

	r.rt.OnSettled(signal)
	if d > 0 {
		r.clock.AfterFunc(d, signal)
	}
	return done
}

func (r *Runtime) nextName(kind string) string {
	return kind + "-" + strconv.FormatInt(r.seq.Add(1), 10)
}
