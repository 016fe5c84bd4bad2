package internal

// EffectNode wraps a Computed whose compute function returns an optional
// cleanup closure (boxed as `func()` in the `any` value slot) instead of a
// plain value. Unlike a plain Computed, running an effect does not
// recompute synchronously from the scheduler's recompute pass: it enqueues
// its body onto the runtime's EffectQueue, so every derived value in a
// flush settles before any effect (sync or user) observes it. Grounded on
// the teacher's internal/effect.go.
type EffectNode struct {
	*Computed
	priority EffectPriority
}

// NewEffect creates and immediately runs an effect body once (synchronously,
// during construction) to establish its initial dependency set, the way
// NewDerived runs a derived cell's body once. Subsequent dependency changes re-run it via the effect
// queue at the given priority instead of inline during the heap drain.
func NewEffect(rt *Runtime, name string, priority EffectPriority, conditional bool, body func() func()) *EffectNode {
	var compute func(*Computed) (any, error)
	compute = func(c *Computed) (any, error) {
		// A panic carrying an error (ErrCircularDependency, raised by a write
		// the body makes to something it just read) is reported through the
		// same LastError channel as an ordinary compute error instead of
		// crashing the flush, matching derived.go's body wrapper. Anything
		// else propagates.
		var cleanup func()
		var panicked any
		func() {
			defer func() { panicked = recover() }()
			cleanup = body()
		}()
		if panicked != nil {
			if err, ok := panicked.(error); ok {
				return nil, err
			}
			panic(panicked)
		}
		return cleanup, nil
	}

	underlying := NewComputed(rt, name, conditional, compute)
	e := &EffectNode{Computed: underlying, priority: priority}

	runOnce := underlying.fn // captures the default synchronous recompute
	underlying.fn = func() {
		rt.EnqueueEffect(priority, func() {
			if cleanup, ok := underlying.Value().(func()); ok && cleanup != nil {
				cleanup()
			}
			runOnce()
			rt.EnqueueCommit(underlying.Producer)
		})
	}

	// The very first run establishes dependencies synchronously so a
	// caller observing ListenersCount()/IsEmpty() right after construction
	// sees a settled effect, matching the teacher's "runs fn once on
	// creation" contract.
	runOnce()

	return e
}

// Dispose tears down the effect: runs the cleanup returned by its most
// recent run, if any, then clears dependencies, disposes children, and
// marks it disposed so further scheduling is a no-op (the embedded
// Computed.Dispose does that part). A second call does nothing.
func (e *EffectNode) Dispose() {
	if e.Disposed() {
		return
	}
	if cleanup, ok := e.Value().(func()); ok && cleanup != nil {
		cleanup()
	}
	e.Computed.Dispose()
}
