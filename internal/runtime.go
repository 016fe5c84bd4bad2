package internal

import "sync"

// Runtime is one isolated reactive graph: its own heap, tracker, batcher,
// scheduler and effect queue. Unlike the teacher's process-global,
// goroutine-id-keyed singleton, a Runtime here is an explicit value a host
// constructs and threads through every cell constructor — Design Note §9
// calls for "a per-runtime mutable context object ... not a true global" to
// permit multiple isolated graphs in one process. The goroutine-id guard in
// Tracker still protects a single Runtime from being driven concurrently by
// two goroutines.
type Runtime struct {
	heap        *Heap
	tracker     *Tracker
	batcher     *Batcher
	scheduler   *Scheduler
	effectQueue *EffectQueue

	// commitQueue collects producers staged during the current flush so
	// their pending values can be committed in one pass after the heap
	// drains, mirroring the teacher's NodeQueue.
	commitQueue []*Producer

	// async is the pluggable microtask hook used by the async scheduler
	// mode; nil means synchronous (drain immediately on every Schedule).
	async func(flush func() error)

	// settleHooks are invoked once, by Flush after its drain completes;
	// OnSettled appends to them (the root package's Runtime.Settle builds
	// on OnSettled).
	settleHooks []func()

	// asyncMu guards SyncCall, the one entry point code running on a
	// goroutine other than the graph's usual single driving goroutine is
	// allowed to use (an async derivation's compute completing, a stream
	// adapter's push callback). The rest of this type follows the spec's
	// single-threaded-cooperative model and is not otherwise synchronized.
	asyncMu sync.Mutex
}

// New creates a fresh, empty runtime. Async mode is off by default (the
// root package's beacon.New enables it unless the caller opts into sync
// mode), so a freshly constructed *internal.Runtime always behaves
// synchronously until UseAsync is called.
func New() *Runtime {
	return &Runtime{
		heap:        NewHeap(),
		tracker:     NewTracker(),
		batcher:     NewBatcher(),
		scheduler:   NewScheduler(),
		effectQueue: NewEffectQueue(),
	}
}

// NewOwner creates a fresh top-level owner bound to this runtime.
func (r *Runtime) NewOwner() *Owner { return NewOwner(r) }

// Tracker exposes the ambient tracking context (for package-internal use by
// the root package's Read/Peek/Untracked wrappers).
func (r *Runtime) Tracker() *Tracker { return r.tracker }

// CurrentOwner returns the owner currently executing, or nil.
func (r *Runtime) CurrentOwner() *Owner { return r.tracker.CurrentOwner() }

// CurrentComputation returns the computation currently executing, or nil.
func (r *Runtime) CurrentComputation() *Computed { return r.tracker.CurrentComputation() }

// OnCleanup registers fn against the current owner, if any; it is a no-op
// outside any owner's Run.
func (r *Runtime) OnCleanup(fn func()) {
	if o := r.CurrentOwner(); o != nil {
		o.OnCleanup(fn)
	}
}

// UseAsync installs flush as the microtask hook: Schedule will call flush
// instead of draining inline whenever a write occurs outside a batch.
// flush is expected to eventually call r.Flush() (typically after
// scheduling it onto a goroutine or the host's own microtask primitive).
func (r *Runtime) UseAsync(hook func(flush func() error)) { r.async = hook }

// UseSync disables the microtask hook: every unbatched write drains
// immediately, synchronously, on the writer's goroutine.
func (r *Runtime) UseSync() { r.async = nil }

// IsAsync reports whether a microtask hook is installed.
func (r *Runtime) IsAsync() bool { return r.async != nil }

// Schedule marks the scheduler dirty and, unless we are inside a batch,
// triggers a flush: inline if synchronous, or via the microtask hook if
// async mode is enabled.
func (r *Runtime) Schedule() {
	r.scheduler.Schedule()

	if r.batcher.IsBatching() {
		return
	}

	if r.async != nil {
		r.async(r.Flush)
		return
	}

	r.Flush()
}

// Batch executes fn with writes coalesced: every write inside still stages
// its value and enqueues dependents, but no flush happens until the
// outermost Batch call returns, so chained writes to independent cells
// settle in one pass.
func (r *Runtime) Batch(fn func()) {
	r.batcher.Run(fn, r.Schedule)
}

// Untracked executes fn with dependency tracking suspended.
func (r *Runtime) Untracked(fn func()) {
	r.tracker.RunUntracked(fn)
}

// Flush drains the scheduler until it settles: recomputing every stale
// node in height order, committing staged values, then running effects in
// two priority passes, repeating if any of that work re-scheduled more
// work (e.g. an effect wrote to a signal another effect reads).
func (r *Runtime) Flush() error {
	err := r.scheduler.Run(func() {
		r.heap.Drain(r.recompute)

		committed := r.commitQueue
		r.commitQueue = nil
		for _, p := range committed {
			if !p.Commit() {
				continue
			}
			p := p
			r.EnqueueEffect(EffectSync, func() { p.Listeners().NotifyPriority(EffectSync) })
			r.EnqueueEffect(EffectUser, func() { p.Listeners().NotifyPriority(EffectUser) })
		}

		r.effectQueue.RunAll()
	})

	hooks := r.settleHooks
	r.settleHooks = nil
	for _, h := range hooks {
		h()
	}

	return err
}

// OnSettled registers fn to run once, after the runtime's current flush
// fully completes including its effect passes. If no flush is scheduled or
// running, fn runs immediately.
func (r *Runtime) OnSettled(fn func()) {
	if !r.scheduler.IsScheduled() && !r.scheduler.IsRunning() {
		fn()
		return
	}
	r.settleHooks = append(r.settleHooks, fn)
}

// EnqueueCommit registers p to have its staged value committed at the end
// of the current Flush pass.
func (r *Runtime) EnqueueCommit(p *Producer) {
	r.commitQueue = append(r.commitQueue, p)
}

// EnqueueEffect queues fn to run during the next effect pass of priority p.
func (r *Runtime) EnqueueEffect(p EffectPriority, fn func()) {
	r.effectQueue.Enqueue(p, fn)
}

// ScheduleSubs inserts every subscriber of p into the heap and requests a
// flush; this is the write path every Writable.Set (via commitWrite) and
// time-operator emission funnels through.
func (r *Runtime) ScheduleSubs(p *Producer) {
	r.heap.InsertAll(p.Subs())
	r.Schedule()
}

// SyncCall serializes fn against every other goroutine's SyncCall on this
// runtime. Async derivations and stream/future adapters funnel their
// completion callbacks (which run on a goroutine of their own, not the
// graph's driving goroutine) through this so two such callbacks landing at
// once don't corrupt shared scheduler state; it does not protect against a
// completion racing genuinely concurrent synchronous use of the same
// Runtime, which the spec's single-threaded-cooperative model disallows.
func (r *Runtime) SyncCall(fn func()) {
	r.asyncMu.Lock()
	defer r.asyncMu.Unlock()
	fn()
}

func (r *Runtime) recompute(node *Computed) {
	if node.Disposed() {
		return
	}
	node.fn()
	r.EnqueueCommit(node.Producer)
}
