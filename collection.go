package beacon

import "github.com/mossbeacon/beacon/internal"

// ListCell is a producer holding a slice, with mutators that notify after
// every in-place change (§2 "Collection cells").
type ListCell[T any] struct {
	rt    *Runtime
	p     *internal.Producer
	items []T
}

// NewListCell creates a list cell seeded with a copy of initial.
func NewListCell[T any](rt *Runtime, initial []T, opts ...WritableOption) *ListCell[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("list")
	}

	items := make([]T, len(initial))
	copy(items, initial)

	l := &ListCell[T]{rt: rt, p: internal.NewProducer(name), items: items}
	l.p.Stage(snapshot(items), true)
	l.p.Commit()
	return l
}

func snapshot[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Name returns the diagnostic label.
func (l *ListCell[T]) Name() string { return l.p.Name }

// Read returns a snapshot of the current items, tracked.
func (l *ListCell[T]) Read() []T {
	l.rt.rt.Tracker().Track(l.p)
	return as[[]T](l.p.Value())
}

// Peek implements Cell.
func (l *ListCell[T]) Peek() any { return l.p.Value() }

// Len returns the current item count, tracked.
func (l *ListCell[T]) Len() int {
	l.rt.rt.Tracker().Track(l.p)
	return len(l.items)
}

// Append adds items to the end of the list and notifies.
func (l *ListCell[T]) Append(items ...T) {
	l.items = append(l.items, items...)
	l.notify()
}

// RemoveAt removes the item at index i and notifies. Out-of-range i is a
// no-op.
func (l *ListCell[T]) RemoveAt(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.notify()
}

// Set replaces the item at index i and notifies. Out-of-range i is a no-op.
func (l *ListCell[T]) Set(i int, v T) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items[i] = v
	l.notify()
}

// Clear empties the list and notifies, if it held anything.
func (l *ListCell[T]) Clear() {
	if len(l.items) == 0 {
		return
	}
	l.items = l.items[:0]
	l.notify()
}

func (l *ListCell[T]) notify() {
	commitWrite(l.rt, l.p, snapshot(l.items), true)
}

// ListenersCount reports active Subscribe registrations.
func (l *ListCell[T]) ListenersCount() int { return l.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever committed (always false after
// construction, an empty list still counts as a committed value).
func (l *ListCell[T]) IsEmpty() bool { return l.p.IsEmpty() }

// Dispose tears the cell down.
func (l *ListCell[T]) Dispose() { l.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (l *ListCell[T]) OnDispose(fn func()) { l.p.OnDispose(fn) }

// Subscribe registers fn to run on every mutation.
func (l *ListCell[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(l.p, fn, opts)
}

// SetCell is a producer holding a set of comparable items (§2).
type SetCell[T comparable] struct {
	rt    *Runtime
	p     *internal.Producer
	items map[T]struct{}
}

// NewSetCell creates a set cell seeded with initial.
func NewSetCell[T comparable](rt *Runtime, initial []T, opts ...WritableOption) *SetCell[T] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("set")
	}

	items := make(map[T]struct{}, len(initial))
	for _, v := range initial {
		items[v] = struct{}{}
	}

	s := &SetCell[T]{rt: rt, p: internal.NewProducer(name), items: items}
	s.p.Stage(s.snapshot(), true)
	s.p.Commit()
	return s
}

func (s *SetCell[T]) snapshot() map[T]struct{} {
	out := make(map[T]struct{}, len(s.items))
	for k := range s.items {
		out[k] = struct{}{}
	}
	return out
}

// Name returns the diagnostic label.
func (s *SetCell[T]) Name() string { return s.p.Name }

// Read returns a snapshot of the current members, tracked.
func (s *SetCell[T]) Read() map[T]struct{} {
	s.rt.rt.Tracker().Track(s.p)
	return as[map[T]struct{}](s.p.Value())
}

// Peek implements Cell.
func (s *SetCell[T]) Peek() any { return s.p.Value() }

// Has reports membership, tracked.
func (s *SetCell[T]) Has(v T) bool {
	s.rt.rt.Tracker().Track(s.p)
	_, ok := s.items[v]
	return ok
}

// Add inserts v, notifying if it was not already a member.
func (s *SetCell[T]) Add(v T) {
	if _, ok := s.items[v]; ok {
		return
	}
	s.items[v] = struct{}{}
	s.notify()
}

// Remove deletes v, notifying if it was a member.
func (s *SetCell[T]) Remove(v T) {
	if _, ok := s.items[v]; !ok {
		return
	}
	delete(s.items, v)
	s.notify()
}

func (s *SetCell[T]) notify() {
	commitWrite(s.rt, s.p, s.snapshot(), true)
}

// ListenersCount reports active Subscribe registrations.
func (s *SetCell[T]) ListenersCount() int { return s.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever committed.
func (s *SetCell[T]) IsEmpty() bool { return s.p.IsEmpty() }

// Dispose tears the cell down.
func (s *SetCell[T]) Dispose() { s.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (s *SetCell[T]) OnDispose(fn func()) { s.p.OnDispose(fn) }

// Subscribe registers fn to run on every mutation.
func (s *SetCell[T]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(s.p, fn, opts)
}

// MapCell is a producer holding a map keyed by a comparable type (§2).
type MapCell[K comparable, V any] struct {
	rt    *Runtime
	p     *internal.Producer
	items map[K]V
}

// NewMapCell creates a map cell seeded with a copy of initial.
func NewMapCell[K comparable, V any](rt *Runtime, initial map[K]V, opts ...WritableOption) *MapCell[K, V] {
	cfg := resolveWritableOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("map")
	}

	items := make(map[K]V, len(initial))
	for k, v := range initial {
		items[k] = v
	}

	m := &MapCell[K, V]{rt: rt, p: internal.NewProducer(name), items: items}
	m.p.Stage(m.snapshot(), true)
	m.p.Commit()
	return m
}

func (m *MapCell[K, V]) snapshot() map[K]V {
	out := make(map[K]V, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// Name returns the diagnostic label.
func (m *MapCell[K, V]) Name() string { return m.p.Name }

// Read returns a snapshot of the current entries, tracked.
func (m *MapCell[K, V]) Read() map[K]V {
	m.rt.rt.Tracker().Track(m.p)
	return as[map[K]V](m.p.Value())
}

// Peek implements Cell.
func (m *MapCell[K, V]) Peek() any { return m.p.Value() }

// Get returns the value at key, tracked.
func (m *MapCell[K, V]) Get(key K) (V, bool) {
	m.rt.rt.Tracker().Track(m.p)
	v, ok := m.items[key]
	return v, ok
}

// Set writes key to value and notifies.
func (m *MapCell[K, V]) Set(key K, value V) {
	m.items[key] = value
	m.notify()
}

// Delete removes key, notifying if it was present.
func (m *MapCell[K, V]) Delete(key K) {
	if _, ok := m.items[key]; !ok {
		return
	}
	delete(m.items, key)
	m.notify()
}

func (m *MapCell[K, V]) notify() {
	commitWrite(m.rt, m.p, m.snapshot(), true)
}

// ListenersCount reports active Subscribe registrations.
func (m *MapCell[K, V]) ListenersCount() int { return m.p.Listeners().Len() }

// IsEmpty reports whether the cell has ever committed.
func (m *MapCell[K, V]) IsEmpty() bool { return m.p.IsEmpty() }

// Dispose tears the cell down.
func (m *MapCell[K, V]) Dispose() { m.p.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (m *MapCell[K, V]) OnDispose(fn func()) { m.p.OnDispose(fn) }

// Subscribe registers fn to run on every mutation.
func (m *MapCell[K, V]) Subscribe(fn func(), opts ...SubscribeOption) Disposer {
	return subscribe(m.p, fn, opts)
}
