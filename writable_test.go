package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritable(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		count := NewWritable(rt, 0)
		assert.Equal(t, 0, count.Read())

		count.Set(10)
		assert.Equal(t, 10, count.Read())
	})

	t.Run("equal writes do not notify", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		count := NewWritable(rt, 1)

		var notified int
		count.Subscribe(func() { notified++ })

		count.Set(1)
		assert.Equal(t, 0, notified)

		count.Set(2)
		assert.Equal(t, 1, notified)
	})

	t.Run("force bypasses equality gate", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		count := NewWritable(rt, 1)

		var notified int
		count.Subscribe(func() { notified++ })

		count.Set(1, true)
		assert.Equal(t, 1, notified)
	})

	t.Run("reset restores initial value", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		count := NewWritable(rt, 5)
		count.Set(99)

		require.NoError(t, count.Reset())
		assert.Equal(t, 5, count.Read())
	})

	t.Run("dispose clears listeners and is idempotent", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		count := NewWritable(rt, 0)

		var disposed bool
		count.OnDispose(func() { disposed = true })

		var notified int
		count.Subscribe(func() { notified++ })

		count.Dispose()
		count.Dispose()
		assert.True(t, disposed)
		assert.Equal(t, 0, count.ListenersCount())
	})

	t.Run("subscribe with start now fires immediately", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		count := NewWritable(rt, 7)

		var seen []int
		count.Subscribe(func() { seen = append(seen, count.PeekValue()) }, WithStartNow())
		count.Set(8)

		assert.Equal(t, []int{7, 8}, seen)
	})
}
