package beacon

import (
	"context"

	"github.com/mossbeacon/beacon/internal"
)

// Stream is the external push source stream/future adapters bridge (§4.8):
// Send delivers a value, Err terminates with an error, Done terminates
// cleanly. A host implementation (a channel wrapper, a websocket reader,
// ...) calls these from whatever goroutine it already runs on; every call
// funnels into the owning Runtime through SyncCall.
type Stream[T any] interface {
	// Subscribe registers the adapter as a listener, returning an
	// unsubscribe func. The source must stop calling send/err/done after
	// unsubscribe returns.
	Subscribe(send func(T), err func(error), done func()) (unsubscribe func())
}

// FromStream bridges an external push source into an AsyncValue[T] cell
// (§4.8): each push maps to a Data transition, an error maps to Error
// (then, if cancelOnError, the source is unsubscribed), and Done leaves the
// last state in place.
func FromStream[T any](rt *Runtime, source Stream[T], cancelOnError bool, opts ...WritableOption) *StreamCell[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("from-stream")
	}

	s := &StreamCell[T]{rt: rt, p: internal.NewProducerWithValue(name, idleAsync[T]())}
	s.unsubscribe = source.Subscribe(
		func(v T) {
			rt.rt.SyncCall(func() { s.stage(dataAsync(v)) })
		},
		func(e error) {
			rt.rt.SyncCall(func() {
				s.stage(errorAsync[T](e, s.lastData()))
				if cancelOnError && s.unsubscribe != nil {
					u := s.unsubscribe
					s.unsubscribe = nil
					u()
				}
			})
		},
		func() {},
	)
	return s
}

// StreamCell is the handle returned by FromStream.
type StreamCell[T any] struct {
	rt          *Runtime
	p           *internal.Producer
	unsubscribe func()
}

func (s *StreamCell[T]) lastData() *T {
	v, ok := s.p.Peek()
	if !ok {
		return nil
	}
	if d, ok := as[AsyncValue[T]](v).Data(); ok {
		return &d
	}
	return nil
}

func (s *StreamCell[T]) stage(v AsyncValue[T]) {
	commitWrite(s.rt, s.p, v, true)
}

// Name returns the diagnostic label.
func (s *StreamCell[T]) Name() string { return s.p.Name }

// Status returns the current AsyncValue, tracked.
func (s *StreamCell[T]) Status() AsyncValue[T] {
	s.rt.rt.Tracker().Track(s.p)
	return as[AsyncValue[T]](s.p.Value())
}

// Peek implements Cell.
func (s *StreamCell[T]) Peek() any { return s.p.Value() }

// ListenersCount reports active Subscribe registrations.
func (s *StreamCell[T]) ListenersCount() int { return s.p.Listeners().Len() }

// IsEmpty always reports false: the initial state is AsyncIdle.
func (s *StreamCell[T]) IsEmpty() bool { return false }

// Dispose unsubscribes from the source and tears the cell down.
func (s *StreamCell[T]) Dispose() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.p.Dispose()
}

// OnDispose registers fn to run once, when Dispose executes.
func (s *StreamCell[T]) OnDispose(fn func()) { s.p.OnDispose(fn) }

// Subscribe registers fn to run whenever Status transitions.
func (s *StreamCell[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(s.p, fn, opts)
}

// FromFuture runs thunk on its own goroutine and transitions through the
// same Loading/Data/Error lifecycle as AsyncDerived, but without dependency
// tracking: nothing ever triggers a second run (§4.8).
func FromFuture[T any](rt *Runtime, thunk func(context.Context) (T, error), opts ...WritableOption) *StreamCell[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("from-future")
	}

	s := &StreamCell[T]{rt: rt, p: internal.NewProducerWithValue(name, loadingAsync[T](nil))}
	go func() {
		v, err := thunk(context.Background())
		rt.rt.SyncCall(func() {
			if err != nil {
				s.stage(errorAsync[T](err, nil))
			} else {
				s.stage(dataAsync(v))
			}
		})
	}()
	return s
}

// ToStream exposes any readable cell as an external push source: sink is
// invoked with the current value on subscribe and on every subsequent
// change; the returned unsubscribe func runs onCancel, if non-nil.
func ToStream[T any](rt *Runtime, cell interface {
	PeekValue() T
	Subscribe(func(), ...SubscribeOption) Disposer
}, sink func(T), onCancel func()) (unsubscribe func()) {
	dispose := cell.Subscribe(func() { sink(cell.PeekValue()) }, WithStartNow())
	return func() {
		dispose()
		if onCancel != nil {
			onCancel()
		}
	}
}

// Next returns a one-shot future resolving to the next value matching
// filter (nil accepts anything). If timeout elapses first, it resolves with
// the current value at that point. The subscription is released the moment
// the future resolves, idempotently, via a sync.Once-equivalent disposed
// flag (§4.8).
func Next[T any](rt *Runtime, cell interface {
	PeekValue() T
	Subscribe(func(), ...SubscribeOption) Disposer
}, filter func(T) bool, timeout CancelableAfter) <-chan T {
	out := make(chan T, 1)
	var done bool
	var dispose Disposer
	var cancelTimer CancelFunc

	finish := func(v T) {
		rt.rt.SyncCall(func() {
			if done {
				return
			}
			done = true
			if dispose != nil {
				dispose()
			}
			if cancelTimer != nil {
				cancelTimer()
			}
			out <- v
			close(out)
		})
	}

	dispose = cell.Subscribe(func() {
		v := cell.PeekValue()
		if filter == nil || filter(v) {
			finish(v)
		}
	})

	if timeout != nil {
		cancelTimer = timeout(func() { finish(cell.PeekValue()) })
	}

	return out
}

// CancelableAfter schedules fn to run after a fixed delay and returns a
// cancel func; Next accepts this instead of a bare duration so callers can
// supply a Clock's AfterFunc bound to their own duration inline.
type CancelableAfter func(fn func()) CancelFunc
