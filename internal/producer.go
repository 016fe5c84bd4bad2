package internal

import "iter"

// NodeFlags tracks scheduler bookkeeping bits on a node.
type NodeFlags int

const (
	FlagNone   NodeFlags = 0
	FlagInHeap NodeFlags = 1 << 0 // node is currently queued in the scheduler heap
)

// Producer is the common base for every observable cell (writable, derived,
// effect, async derived, time operators, ...). It owns the current value,
// the equality-gated write machinery, the subscriber linked list used for
// propagation, and the dispose-hook list. Grounded on the teacher's
// internal/signal.go, generalized so Computed (see computed.go) can embed
// it as its value-producing half.
type Producer struct {
	Name string

	value        any
	pendingValue *any // non-nil between Stage and Commit

	isEmpty       bool
	initialValue  any
	previousValue any
	hasPrevious   bool

	height  int
	flags   NodeFlags
	version int64

	subsHead *Link // consumers that depend on this producer

	listeners *Registry // external Subscribe() callbacks, keyed by stable handle

	disposeHooks []func()
	disposed     bool
}

// NewProducer constructs an empty (lazy) producer. Writable cells populate
// it via Stage on first set; derived cells populate it during their first
// recompute.
func NewProducer(name string) *Producer {
	return &Producer{
		Name:      name,
		isEmpty:   true,
		listeners: NewRegistry(),
	}
}

// NewProducerWithValue constructs a producer that is non-empty from creation
// (used internally by constructs that always have an initial value, such as
// AsyncDerived and the stream and future adapters).
func NewProducerWithValue(name string, v any) *Producer {
	return &Producer{
		Name:         name,
		value:        v,
		initialValue: v,
		listeners:    NewRegistry(),
	}
}

func (p *Producer) Height() int       { return p.height }
func (p *Producer) SetHeight(h int)   { p.height = h }
func (p *Producer) Version() int64    { return p.version }
func (p *Producer) SetVersion(v int64) { p.version = v }

func (p *Producer) HasFlag(f NodeFlags) bool { return p.flags&f != 0 }
func (p *Producer) AddFlag(f NodeFlags)      { p.flags |= f }
func (p *Producer) RemoveFlag(f NodeFlags)   { p.flags &^= f }

// IsEmpty reports whether the producer has never been written.
func (p *Producer) IsEmpty() bool { return p.isEmpty }

// Peek returns the current value without registering a dependency. Panics
// via the caller (Read wraps this) are the caller's responsibility; this
// method only reports emptiness.
func (p *Producer) Peek() (any, bool) {
	if p.isEmpty {
		return nil, false
	}
	if p.pendingValue != nil {
		return *p.pendingValue, true
	}
	return p.value, true
}

// Value is an alias for the value half of Peek, returning the zero value
// when empty. Callers that must distinguish emptiness use Peek.
func (p *Producer) Value() any {
	v, _ := p.Peek()
	return v
}

func (p *Producer) PreviousValue() (any, bool) { return p.previousValue, p.hasPrevious }
func (p *Producer) InitialValue() any          { return p.initialValue }

// Stage records v as the pending write without notifying. Commit (called by
// the scheduler after a flush) makes it visible. Returns false if v is
// unchanged and force is not set, in which case nothing is staged.
func (p *Producer) Stage(v any, force bool) bool {
	cur, nonEmpty := p.Peek()
	if !force && nonEmpty && isEqual(cur, v) {
		return false
	}

	if p.isEmpty {
		p.initialValue = v
		p.previousValue = nil
		p.hasPrevious = false
		p.isEmpty = false
	} else {
		p.previousValue = cur
		p.hasPrevious = true
	}

	p.pendingValue = &v
	return true
}

// Commit applies the pending value, if any, and reports whether a value was
// actually applied (false means this producer was enqueued for commit but
// its Stage call had been a no-op, e.g. a recomputed node whose value did
// not change).
func (p *Producer) Commit() bool {
	if p.pendingValue == nil {
		return false
	}
	p.value = *p.pendingValue
	p.pendingValue = nil
	return true
}

// resetToInitial restores the producer's initial value and discards any
// pending and previous value, used by Dispose; it does not mark the
// producer empty. Listeners and dispose hooks are cleared by the caller.
func (p *Producer) resetToInitial() {
	p.value = p.initialValue
	p.pendingValue = nil
	p.previousValue = nil
	p.hasPrevious = false
}

// Suspend discards the current value and returns the producer to its
// never-written state without disposing it or touching its listeners, used
// by a sleeping Derived (§4.4): the next write (re-run of its compute)
// re-establishes initialValue exactly like a fresh cell's first write.
func (p *Producer) Suspend() {
	p.value = nil
	p.pendingValue = nil
	p.previousValue = nil
	p.hasPrevious = false
	p.isEmpty = true
}

// Subs returns an iterator over the consumers currently subscribed to this
// producer for dependency propagation (not the external Subscribe()
// listeners, which live in Registry).
func (p *Producer) Subs() iter.Seq[*Computed] {
	return func(yield func(*Computed) bool) {
		link := p.subsHead
		for link != nil {
			next := link.nextSub
			if !yield(link.sub) {
				return
			}
			link = next
		}
	}
}

func (p *Producer) addSubLink(link *Link) {
	if p.subsHead == nil {
		p.subsHead = link
		link.prevSub = link
		link.nextSub = nil
	} else {
		tail := p.subsHead.prevSub
		tail.nextSub = link
		link.prevSub = tail
		link.nextSub = nil
		p.subsHead.prevSub = link
	}
}

func (p *Producer) removeSubLink(link *Link) {
	if link.prevSub == link {
		p.subsHead = nil
		link.prevSub = nil
		link.nextSub = nil
		return
	}

	if link == p.subsHead {
		p.subsHead = link.nextSub
	} else {
		link.prevSub.nextSub = link.nextSub
	}

	if link.nextSub != nil {
		link.nextSub.prevSub = link.prevSub
	} else {
		p.subsHead.prevSub = link.prevSub
	}

	link.prevSub = nil
	link.nextSub = nil
}

// Listeners exposes the external-subscriber registry.
func (p *Producer) Listeners() *Registry { return p.listeners }

// OnDispose registers a hook invoked (once) when Dispose runs.
func (p *Producer) OnDispose(fn func()) { p.disposeHooks = append(p.disposeHooks, fn) }

// Disposed reports whether Dispose has already run.
func (p *Producer) Disposed() bool { return p.disposed }

// Dispose tears the producer down: runs dispose hooks, clears listeners,
// resets the value to its initial value, and marks it disposed. Idempotent.
func (p *Producer) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true

	hooks := p.disposeHooks
	p.disposeHooks = nil
	for _, h := range hooks {
		h()
	}

	p.listeners.Clear()
	p.resetToInitial()
}

// isEqual compares two boxed values, treating panics from uncomparable
// dynamic types (slices, maps, funcs) as "not equal" rather than crashing
// the write path.
func isEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
