package beacon

// Wrapper composes a receiving Writable out of one or more source cells
// (§4.9): each Wrap call subscribes the receiver to a target, feeding every
// target emission through then (or a direct type assertion, if then is
// nil) into receiver.Set. A Wrapper remembers which targets it has already
// wrapped, so wrapping the same target twice is a no-op.
type Wrapper[T any] struct {
	receiver *Writable[T]
	wrapped  map[Cell]bool
}

// NewWrapper creates a Wrapper composing receiver.
func NewWrapper[T any](receiver *Writable[T]) *Wrapper[T] {
	return &Wrapper[T]{receiver: receiver, wrapped: make(map[Cell]bool)}
}

// Wrap subscribes the receiver to target. then converts target's untyped
// Peek value into T; if nil, a direct type assertion is used, failing with
// ErrWrapTargetWrongType (at construction, if target is already non-empty
// and the type is already known to mismatch; otherwise lazily, the first
// time a mismatched emission arrives). If startNow is true and target is
// empty, construction fails with ErrWrapEmptyTarget. disposeTogether
// installs mutual dispose hooks, guarded against reentry.
func (w *Wrapper[T]) Wrap(target Cell, then func(any) T, startNow, disposeTogether bool) (Disposer, error) {
	if w.wrapped[target] {
		return func() {}, nil
	}

	if startNow && target.IsEmpty() {
		return nil, wrapErr(ErrWrapEmptyTarget, target.Name())
	}

	convert := then
	if convert == nil {
		convert = func(v any) T {
			tv, ok := v.(T)
			if !ok {
				panic(wrapErr(ErrWrapTargetWrongType, target.Name()))
			}
			return tv
		}
		if !target.IsEmpty() {
			if _, ok := target.Peek().(T); !ok {
				return nil, wrapErr(ErrWrapTargetWrongType, target.Name())
			}
		}
	}

	w.wrapped[target] = true

	apply := func() { w.receiver.Set(convert(target.Peek())) }

	var subOpts []SubscribeOption
	if startNow {
		subOpts = append(subOpts, WithStartNow())
	}
	dispose := target.Subscribe(apply, subOpts...)

	if disposeTogether {
		var guard bool
		once := func() {
			if guard {
				return
			}
			guard = true
			dispose()
		}
		w.receiver.OnDispose(once)
		target.OnDispose(once)
	}

	return dispose, nil
}
