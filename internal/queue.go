package internal

// EffectPriority splits queued effect callbacks into two passes per flush,
// the way the teacher's EffectType splits EffectRender from EffectUser:
// here, Sync effects (subscriptions registered with synchronous=true, and
// internal plumbing effects such as the one driving an async derivation)
// run before User effects (ordinary NewEffect bodies and external
// Subscribe() callbacks), so a host can always observe settled derived
// values before user-level side effects fire.
type EffectPriority int

const (
	EffectSync EffectPriority = iota
	EffectUser
)

// EffectQueue buffers effect callbacks during a flush and runs them, in two
// priority passes, once value propagation has settled.
type EffectQueue struct {
	queues map[EffectPriority][]func()
}

// NewEffectQueue creates an empty queue.
func NewEffectQueue() *EffectQueue {
	return &EffectQueue{
		queues: map[EffectPriority][]func(){
			EffectSync: nil,
			EffectUser: nil,
		},
	}
}

// Enqueue appends fn to the named priority's pending list.
func (q *EffectQueue) Enqueue(p EffectPriority, fn func()) {
	q.queues[p] = append(q.queues[p], fn)
}

// RunAll drains and runs every queued Sync effect, then every queued User
// effect. Effects enqueued by a Sync effect's run are themselves drained
// before moving to the User pass.
func (q *EffectQueue) RunAll() {
	q.runPriority(EffectSync)
	q.runPriority(EffectUser)
}

func (q *EffectQueue) runPriority(p EffectPriority) {
	for len(q.queues[p]) > 0 {
		pending := q.queues[p]
		q.queues[p] = nil
		for _, fn := range pending {
			fn()
		}
	}
}
