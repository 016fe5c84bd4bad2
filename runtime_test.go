package beacon

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	rt := New(WithSyncScheduler())
	a := NewWritable(rt, 1)
	b := NewWritable(rt, 10)

	var runs int
	NewEffect(rt, func() func() {
		runs++
		_ = a.Read()
		_ = b.Read()
		return nil
	})
	assert.Equal(t, 1, runs)

	rt.Batch(func() {
		a.Set(2)
		b.Set(20)
	})
	assert.Equal(t, 2, runs) // one flush for both writes, not two
}

func TestUntracked(t *testing.T) {
	rt := New(WithSyncScheduler())
	a := NewWritable(rt, 1)
	b := NewWritable(rt, 10)

	var runs int
	d := NewDerived(rt, func() int {
		runs++
		v := a.Read()
		rt.Untracked(func() { v += b.Read() })
		return v
	})

	assert.Equal(t, 11, d.Read())
	assert.Equal(t, 1, runs)

	b.Set(20) // untracked read, no dependency registered
	assert.Equal(t, 1, runs)

	a.Set(2) // tracked read, recomputes
	assert.Equal(t, 22, d.Read())
	assert.Equal(t, 2, runs)
}

func TestOnSettled(t *testing.T) {
	t.Run("fires immediately when nothing is in flight", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var settled int
		rt.OnSettled(func() { settled++ })
		assert.Equal(t, 1, settled)
	})

	t.Run("registered mid-flush, fires after the effect pass completes", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		a := NewWritable(rt, 1)

		var order []string
		NewEffect(rt, func() func() {
			_ = a.Read()
			rt.OnSettled(func() { order = append(order, "settled") })
			order = append(order, "effect")
			return nil
		})

		// The first run happens during construction, when no flush is in
		// flight, so OnSettled fires at once, before the body's own append.
		assert.Equal(t, []string{"settled", "effect"}, order)

		order = nil
		a.Set(2)
		assert.Equal(t, []string{"effect", "settled"}, order)
	})
}

func TestDefaultAsyncScheduler(t *testing.T) {
	// Unlike every other test in this package, this one deliberately does
	// NOT pass WithSyncScheduler: it exercises the real default scheduler,
	// whose drain happens on the dedicated pump goroutine rather than the
	// calling one.
	rt := New()
	count := NewWritable(rt, 0)

	var runs atomic.Int32
	NewEffect(rt, func() func() {
		_ = count.Read()
		runs.Add(1)
		return nil
	})
	require.EqualValues(t, 1, runs.Load()) // the first run is always synchronous, at construction

	count.Set(1)
	require.Eventually(t, func() bool {
		return runs.Load() == 2
	}, time.Second, time.Millisecond)

	count.Set(2)
	count.Set(3)
	require.Eventually(t, func() bool {
		return runs.Load() == 3 // two writes before the pump drains coalesce into one more run
	}, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	require.EqualValues(t, 3, runs.Load()) // and stay coalesced, not double-counted
}

func TestSettle(t *testing.T) {
	t.Run("real scheduler: fires once the async flush completes", func(t *testing.T) {
		rt := New()
		count := NewWritable(rt, 0)
		var seen int

		NewEffect(rt, func() func() {
			seen = count.Read()
			return nil
		})

		count.Set(5)
		select {
		case <-rt.Settle(time.Second):
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for settle")
		}
		assert.Equal(t, 5, seen)
	})

	t.Run("fires immediately if nothing is pending", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		select {
		case <-rt.Settle(10 * time.Millisecond):
		case <-time.After(time.Second):
			t.Fatal("Settle never closed its channel")
		}
	})
}

func TestDependencyGraph(t *testing.T) {
	rt := New(WithSyncScheduler())
	a := NewWritable(rt, 1, WithName("a"))
	b := NewWritable(rt, 2, WithName("b"))

	sum := NewDerived(rt, func() int { return a.Read() + b.Read() })

	graph := rt.DependencyGraph()
	deps, ok := graph[sum.Name()]
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b"}, deps)
}
