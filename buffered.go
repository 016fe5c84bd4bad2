package beacon

import (
	"time"

	"github.com/mossbeacon/beacon/internal"
)

// BufferedCount accumulates writes into an internal list; once the list
// reaches n entries (including the seed value, per the ambiguity resolved
// in §9: "n total items including initial"), its value becomes a snapshot
// of the list and the list is cleared (§4.7, S4).
type BufferedCount[T any] struct {
	rt *Runtime
	p  *internal.Producer
	n  int
	buf []T
}

// NewBufferedCount creates a cell that flushes every n writes. The initial
// value counts toward the first flush's n, matching §9's resolved ambiguity.
func NewBufferedCount[T any](rt *Runtime, initial T, n int, opts ...WritableOption) *BufferedCount[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("buffered-count")
	}

	b := &BufferedCount[T]{rt: rt, p: internal.NewProducer(name), n: n, buf: []T{initial}}
	return b
}

// Name returns the diagnostic label.
func (b *BufferedCount[T]) Name() string { return b.p.Name }

// Read returns the last flushed snapshot, tracked; empty until the first
// flush.
func (b *BufferedCount[T]) Read() []T {
	b.rt.rt.Tracker().Track(b.p)
	v, ok := b.p.Peek()
	if !ok {
		panic(wrapErr(ErrLazyRead, b.p.Name))
	}
	return as[[]T](v)
}

// Peek implements Cell: returns nil, not panicking, before the first flush.
func (b *BufferedCount[T]) Peek() any {
	v, ok := b.p.Peek()
	if !ok {
		return nil
	}
	return v
}

// Set appends v to the pending buffer, flushing (and clearing it) once it
// reaches n entries.
func (b *BufferedCount[T]) Set(v T) {
	b.buf = append(b.buf, v)
	if len(b.buf) < b.n {
		return
	}
	snapshot := make([]T, len(b.buf))
	copy(snapshot, b.buf)
	b.buf = b.buf[:0]

	commitWrite(b.rt, b.p, snapshot, true)
}

// ListenersCount reports active Subscribe registrations.
func (b *BufferedCount[T]) ListenersCount() int { return b.p.Listeners().Len() }

// IsEmpty reports whether a flush has ever occurred.
func (b *BufferedCount[T]) IsEmpty() bool { return b.p.IsEmpty() }

// Dispose tears the cell down.
func (b *BufferedCount[T]) Dispose() { b.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (b *BufferedCount[T]) OnDispose(fn func()) { b.p.OnDispose(fn) }

// Subscribe registers fn to run on every flush.
func (b *BufferedCount[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(b.p, fn, opts)
}

// BufferedTime accumulates writes into an internal list and flushes a
// snapshot whenever duration elapses since the last flush (§4.7).
type BufferedTime[T any] struct {
	rt       *Runtime
	p        *internal.Producer
	clock    Clock
	duration time.Duration

	buf    []T
	cancel CancelFunc
}

// NewBufferedTime creates a cell that flushes accumulated writes every
// duration, starting the timer from construction.
func NewBufferedTime[T any](rt *Runtime, duration time.Duration, opts ...WritableOption) *BufferedTime[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("buffered-time")
	}

	b := &BufferedTime[T]{rt: rt, p: internal.NewProducer(name), clock: rt.clock, duration: duration}
	b.arm()
	return b
}

func (b *BufferedTime[T]) arm() {
	b.cancel = b.clock.AfterFunc(b.duration, b.flush)
}

func (b *BufferedTime[T]) flush() {
	b.rt.rt.SyncCall(func() {
		if len(b.buf) > 0 {
			snapshot := make([]T, len(b.buf))
			copy(snapshot, b.buf)
			b.buf = b.buf[:0]

			commitWrite(b.rt, b.p, snapshot, true)
		}
		b.arm()
	})
}

// Name returns the diagnostic label.
func (b *BufferedTime[T]) Name() string { return b.p.Name }

// Peek implements Cell: returns nil, not panicking, before the first flush.
func (b *BufferedTime[T]) Peek() any {
	v, ok := b.p.Peek()
	if !ok {
		return nil
	}
	return v
}

// Read returns the last flushed snapshot, tracked.
func (b *BufferedTime[T]) Read() []T {
	b.rt.rt.Tracker().Track(b.p)
	v, ok := b.p.Peek()
	if !ok {
		panic(wrapErr(ErrLazyRead, b.p.Name))
	}
	return as[[]T](v)
}

// Set appends v to the pending buffer. Routed through SyncCall since the
// clock's timer callback (flush, under RealClock) runs on its own goroutine
// and also touches buf: without this, Set and flush would race on buf the
// moment a real (non-fake) clock is in use.
func (b *BufferedTime[T]) Set(v T) {
	b.rt.rt.SyncCall(func() {
		b.buf = append(b.buf, v)
	})
}

// ListenersCount reports active Subscribe registrations.
func (b *BufferedTime[T]) ListenersCount() int { return b.p.Listeners().Len() }

// IsEmpty reports whether a flush has ever occurred.
func (b *BufferedTime[T]) IsEmpty() bool { return b.p.IsEmpty() }

// Dispose cancels the pending timer and tears the cell down.
func (b *BufferedTime[T]) Dispose() {
	if b.cancel != nil {
		b.cancel()
	}
	b.p.Dispose()
}

// OnDispose registers fn to run once, when Dispose executes.
func (b *BufferedTime[T]) OnDispose(fn func()) { b.p.OnDispose(fn) }

// Subscribe registers fn to run on every flush.
func (b *BufferedTime[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(b.p, fn, opts)
}
