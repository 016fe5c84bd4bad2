package beacon

import "github.com/mossbeacon/beacon/internal"

// UndoRedo is a writable cell with a bounded history ring of size limit
// (§4.7, S6). The initial value is history entry 0; each accepted write
// appends to history (truncating to the last limit entries) and clears any
// redo suffix.
type UndoRedo[T any] struct {
	rt      *Runtime
	p       *internal.Producer
	limit   int
	history []T
	cursor  int
}

// NewUndoRedo creates an undo/redo cell seeded with initial as history
// entry 0, keeping at most limit entries.
func NewUndoRedo[T any](rt *Runtime, initial T, limit int, opts ...WritableOption) *UndoRedo[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("undo-redo")
	}

	u := &UndoRedo[T]{rt: rt, p: internal.NewProducer(name), limit: limit, history: []T{initial}}
	u.p.Stage(initial, true)
	u.p.Commit()
	return u
}

// Name returns the diagnostic label.
func (u *UndoRedo[T]) Name() string { return u.p.Name }

// Read returns the current value, tracked.
func (u *UndoRedo[T]) Read() T {
	u.rt.rt.Tracker().Track(u.p)
	return as[T](u.p.Value())
}

// Peek implements Cell.
func (u *UndoRedo[T]) Peek() any { return u.p.Value() }

// Set writes v: appends to history (dropping any redo suffix past the
// cursor), truncates history to the last limit entries, and moves the
// cursor to the new tip.
func (u *UndoRedo[T]) Set(v T) {
	u.history = append(u.history[:u.cursor+1], v)
	if len(u.history) > u.limit {
		u.history = u.history[len(u.history)-u.limit:]
	}
	u.cursor = len(u.history) - 1
	u.commit(v)
}

// Undo moves the cursor one step back and sets the value accordingly; a
// no-op at the oldest entry.
func (u *UndoRedo[T]) Undo() {
	if u.cursor == 0 {
		return
	}
	u.cursor--
	u.commit(u.history[u.cursor])
}

// Redo moves the cursor one step forward; a no-op at the newest entry.
func (u *UndoRedo[T]) Redo() {
	if u.cursor >= len(u.history)-1 {
		return
	}
	u.cursor++
	u.commit(u.history[u.cursor])
}

// CanUndo reports whether Undo would move the cursor.
func (u *UndoRedo[T]) CanUndo() bool { return u.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (u *UndoRedo[T]) CanRedo() bool { return u.cursor < len(u.history)-1 }

func (u *UndoRedo[T]) commit(v T) {
	commitWrite(u.rt, u.p, v, false)
}

// ListenersCount reports active Subscribe registrations.
func (u *UndoRedo[T]) ListenersCount() int { return u.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever been written (always false
// after construction, since the initial value seeds history entry 0).
func (u *UndoRedo[T]) IsEmpty() bool { return u.p.IsEmpty() }

// Dispose tears the cell down.
func (u *UndoRedo[T]) Dispose() { u.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (u *UndoRedo[T]) OnDispose(fn func()) { u.p.OnDispose(fn) }

// Subscribe registers fn to run whenever the value changes.
func (u *UndoRedo[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(u.p, fn, opts)
}
