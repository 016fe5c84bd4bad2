package internal

// Batcher tracks nested Batch() depth. While depth > 0, writes still stage
// their value and insert stale subscribers into the heap immediately (so
// dedup-by-identity in the heap already applies), but the scheduler is not
// flushed until the outermost batch exits.
type Batcher struct {
	depth int
}

// NewBatcher creates an idle batcher.
func NewBatcher() *Batcher { return &Batcher{} }

// IsBatching reports whether we are nested inside at least one Batch call.
func (b *Batcher) IsBatching() bool { return b.depth > 0 }

// Run executes fn with the batch depth incremented, invoking onComplete
// exactly once when the outermost batch exits (even if fn panics, so a
// panicking batch still flushes whatever was staged before the panic).
func (b *Batcher) Run(fn func(), onComplete func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}
