package beacon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingResettable is a Disposable+Resettable test double whose Reset
// returns err (a failure whenever err is set), used to exercise ResetAll's
// multierror aggregation.
type failingResettable struct {
	disposed bool
	err      error
}

func (f *failingResettable) Dispose()     { f.disposed = true }
func (f *failingResettable) Reset() error { return f.err }

func TestGroup(t *testing.T) {
	t.Run("DisposeAll disposes every tracked cell and runs disposers first", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		g := NewGroup(rt)

		w1 := Track(g, NewWritable(rt, 1))
		w2 := Track(g, NewWritable(rt, 2))

		var order []string
		g.TrackDisposer(func() { order = append(order, "disposer") })
		w1.OnDispose(func() { order = append(order, "w1") })
		w2.OnDispose(func() { order = append(order, "w2") })

		assert.Equal(t, 2, g.Len())
		g.DisposeAll()

		assert.Equal(t, []string{"disposer", "w1", "w2"}, order)
		assert.Equal(t, 0, g.Len())

		// idempotent: a second call touches nothing
		g.DisposeAll()
		assert.Equal(t, []string{"disposer", "w1", "w2"}, order)
	})

	t.Run("ResetAll resets every Resettable cell and aggregates failures", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		g := NewGroup(rt)

		w := Track(g, NewWritable(rt, 1))
		w.Set(2)

		boom := errors.New("boom")
		Track(g, &failingResettable{err: boom})
		Track(g, &failingResettable{err: nil})

		err := g.ResetAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.Equal(t, 1, w.Read()) // the Writable's reset still succeeded
	})

	t.Run("ResetAll returns nil when nothing fails", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		g := NewGroup(rt)

		w := Track(g, NewWritable(rt, 1))
		w.Set(2)

		assert.NoError(t, g.ResetAll())
		assert.Equal(t, 1, w.Read())
	})
}
