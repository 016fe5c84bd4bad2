package internal

import (
	"container/list"

	"github.com/google/uuid"
)

// Registry is the per-producer set of external subscribers described by the
// spec's "Listener registry" component: stable identity (a uuid.UUID handle,
// so the same callback can be registered twice intentionally) with O(1) add
// and remove. container/list gives the intrusive doubly-linked-list
// behavior the teacher hand-rolled for dependency links, without a
// third-party dependency — no pack example wires a dedicated linked-list
// library for this, the need is purely structural.
type Registry struct {
	order *list.List
	index map[uuid.UUID]*list.Element
}

type registryEntry struct {
	id       uuid.UUID
	fn       func()
	priority EffectPriority
}

// NewRegistry creates an empty listener registry.
func NewRegistry() *Registry {
	return &Registry{
		order: list.New(),
		index: make(map[uuid.UUID]*list.Element),
	}
}

// Add registers fn at the given effect priority and returns a stable handle
// identifying this particular registration.
func (r *Registry) Add(fn func(), priority EffectPriority) uuid.UUID {
	id := uuid.New()
	el := r.order.PushBack(&registryEntry{id: id, fn: fn, priority: priority})
	r.index[id] = el
	return id
}

// Remove drops the subscription identified by id. A second call is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	el, ok := r.index[id]
	if !ok {
		return
	}
	delete(r.index, id)
	r.order.Remove(el)
}

// Len reports the number of active subscriptions.
func (r *Registry) Len() int { return r.order.Len() }

// NotifyPriority invokes every callback registered at the given priority, in
// registration order. Callbacks that remove themselves mid-notification are
// safe: the snapshot is taken up front.
func (r *Registry) NotifyPriority(priority EffectPriority) {
	var fns []func()
	for el := r.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*registryEntry)
		if entry.priority == priority {
			fns = append(fns, entry.fn)
		}
	}
	for _, fn := range fns {
		fn()
	}
}

// Clear removes every subscription without invoking them.
func (r *Registry) Clear() {
	r.order.Init()
	r.index = make(map[uuid.UUID]*list.Element)
}
