package internal

import "iter"

// Computed is both a Producer (it has a value other cells can read) and a
// consumer (it runs a body that reads other producers). Derived cells,
// effects, and the internal trigger behind async derivations are all built
// on Computed, exactly the way the teacher's internal/computed.go underlies
// both Derived and Effect.
type Computed struct {
	*Owner
	*Producer

	// fn is invoked by the scheduler when this node is dirty.
	fn func()

	// compute produces the next value (or, for effects, a cleanup closure).
	// It receives the Computed so recursive helpers (OnCleanup) can resolve
	// the ambient owner.
	compute func(*Computed) (any, error)

	// conditional selects the dependency-tracking mode: true re-tracks every
	// run (supportConditional), false tracks once on the first run only.
	conditional bool
	initialized bool

	depsHead *Link

	// err holds the last error raised by compute, surfaced to callers via
	// LastError; the producer's value is left unchanged when a run fails,
	// and a re-tracking run restores the prior dependency set (see run).
	lastErr error
}

// NewComputed creates a computed node bound to rt with a detached owner (no
// parent; callers attach it with AddChild if needed). It does not run
// compute: callers establish the initial value and dependency set with
// RunNow, or through the first run NewEffect makes.
func NewComputed(rt *Runtime, name string, conditional bool, compute func(*Computed) (any, error)) *Computed {
	c := &Computed{
		Owner:       NewOwner(rt),
		Producer:    NewProducer(name),
		compute:     compute,
		conditional: conditional,
	}
	c.fn = c.run

	c.Producer.OnDispose(func() {
		if c.HasFlag(FlagInHeap) {
			rt.heap.Remove(c)
		}
		c.ClearDeps()
	})

	return c
}

// run recomputes the node's value. It is the function the scheduler invokes
// (via fn) when the node is dirty.
func (c *Computed) run() {
	rt := c.rt

	if c.initialized {
		c.DisposeChildren()
	}
	c.initialized = true

	retrack := c.conditional || c.depsHead == nil

	var priorDeps []*Producer
	if retrack {
		for dep := range c.Deps() {
			priorDeps = append(priorDeps, dep)
		}
		c.ClearDeps()
	}
	c.SetVersion(rt.scheduler.Time())

	var value any
	var err error
	body := func() {
		defer c.recover()
		value, err = c.compute(c)
	}

	rt.tracker.RunWithComputation(c, func() {
		if retrack {
			body()
		} else {
			// supportConditional=false and a dependency set already exists:
			// run again but don't register any new links.
			rt.tracker.RunUntracked(body)
		}
	})

	if err != nil {
		c.lastErr = err
		if retrack {
			// roll back to the dependency set this node had before the
			// failed run, per the propagation policy: a failing consumer
			// must not corrupt the graph.
			c.ClearDeps()
			for _, dep := range priorDeps {
				c.Link(dep)
			}
		}
		return
	}
	c.lastErr = nil
	c.Stage(value, false)

	rt.heap.InsertAll(c.Subs())
}

// LastError returns the error raised by the most recent run, if any.
func (c *Computed) LastError() error { return c.lastErr }

// Disposed reports whether the node's producer half has been disposed.
func (c *Computed) Disposed() bool { return c.Producer.Disposed() }

// RunNow recomputes the node synchronously on the calling goroutine,
// bypassing the scheduler's heap. Used to wake a sleeping Derived on demand
// (§4.4's "next read ... re-runs") and to establish a fresh node's initial
// value/dependency set.
func (c *Computed) RunNow() { c.run() }

// Suspend clears this node's dependency links and producer value, and
// removes it from the scheduler heap if it was queued, putting it to sleep
// until the next RunNow call. Children (nested effects from a prior run)
// are left alone; run() disposes them again on the next run.
func (c *Computed) Suspend() {
	c.ClearDeps()
	c.initialized = false
	c.Producer.Suspend()
	if c.HasFlag(FlagInHeap) {
		c.rt.heap.Remove(c)
		c.RemoveFlag(FlagInHeap)
	}
}

// Link creates a bidirectional dependency link between this computed node
// (subscriber) and dep (the producer it just read). A node already linked
// as the most recently added dependency is not re-linked (cheap
// idempotence for repeated reads of the same producer within one run).
func (c *Computed) Link(dep *Producer) {
	if c.depsHead != nil {
		tail := c.depsHead.prevDep
		if tail.dep == dep {
			return
		}
	}

	link := &Link{dep: dep, sub: c}

	c.addDepLink(link)
	dep.addSubLink(link)

	if dep.Height() >= c.Height() {
		c.SetHeight(dep.Height() + 1)
	}
}

// Deps iterates the producers this computed node currently depends on.
func (c *Computed) Deps() iter.Seq[*Producer] {
	return func(yield func(*Producer) bool) {
		link := c.depsHead
		for link != nil {
			next := link.nextDep
			if !yield(link.dep) {
				return
			}
			link = next
		}
	}
}

// ClearDeps removes every dependency link, used before each re-track and on
// dispose.
func (c *Computed) ClearDeps() {
	for link := c.depsHead; link != nil; {
		next := link.nextDep
		link.dep.removeSubLink(link)
		link = next
	}
	c.depsHead = nil
}

func (c *Computed) addDepLink(link *Link) {
	if c.depsHead == nil {
		c.depsHead = link
		link.prevDep = link
		link.nextDep = nil
	} else {
		tail := c.depsHead.prevDep
		tail.nextDep = link
		link.prevDep = tail
		link.nextDep = nil
		c.depsHead.prevDep = link
	}
}

// Dispose tears down the computed node: disposes children, clears
// dependency links, and disposes the embedded producer (external listeners,
// value reset).
func (c *Computed) Dispose() {
	c.Owner.Dispose()
	c.Producer.Dispose()
}
