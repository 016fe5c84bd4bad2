package internal

// Tracker is the ambient per-runtime tracking context described by the
// spec's §4.1: which computation is "current", how deep we are nested in
// untracked scopes, and (via the owner pointer) which owner new child nodes
// should be parented under. Grounded on the teacher's internal/tracker.go,
// with the cross-goroutine guard kept (a runtime must only ever be driven
// from the goroutine that is currently inside one of its Run* calls).
type Tracker struct {
	executingGID       int64
	currentOwner       *Owner
	currentComputation *Computed
	untrackedDepth     int
}

// NewTracker creates an empty tracker (no current owner or computation).
func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) CurrentOwner() *Owner             { return t.currentOwner }
func (t *Tracker) CurrentComputation() *Computed    { return t.currentComputation }
func (t *Tracker) IsUntracked() bool                { return t.untrackedDepth > 0 }

// RunWithOwner executes fn with owner installed as the current owner,
// restoring the previous owner afterward even if fn panics.
func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	prev := t.currentOwner
	t.currentOwner = owner
	t.executingGID = getGID()

	defer func() {
		t.currentOwner = prev
	}()

	fn()
}

// RunWithComputation executes fn with node installed as both the current
// owner and the current computation (a computation is always its own
// owner), restoring both afterward.
func (t *Tracker) RunWithComputation(node *Computed, fn func()) {
	prevOwner := t.currentOwner
	prevComputation := t.currentComputation

	t.currentOwner = node.Owner
	t.currentComputation = node
	t.executingGID = getGID()

	defer func() {
		t.currentOwner = prevOwner
		t.currentComputation = prevComputation
	}()

	fn()
}

// RunUntracked executes fn with dependency tracking suspended: reads of any
// producer inside fn do not register a dependency link, even though a
// current computation may still be set (so owner-scoped registrations like
// OnCleanup keep working).
func (t *Tracker) RunUntracked(fn func()) {
	t.untrackedDepth++
	defer func() { t.untrackedDepth-- }()
	fn()
}

// Track registers node as a dependency of the current computation, if
// tracking is active: a computation is current, we are not inside an
// Untracked scope, and the caller is running on the same goroutine that
// entered the current Run* call (guards against cross-goroutine tracking
// corruption, exactly the teacher's safeguard).
func (t *Tracker) Track(node *Producer) {
	if t.currentComputation == nil || t.untrackedDepth > 0 {
		return
	}
	if getGID() != t.executingGID {
		return
	}
	t.currentComputation.Link(node)
}
