package beacon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottled(t *testing.T) {
	t.Run("queues writes while closed, drains one per tick", func(t *testing.T) {
		clock := NewFakeClock(time.Unix(0, 0))
		rt := New(WithSyncScheduler(), WithClock(clock))

		th := NewThrottled(rt, 0, 100*time.Millisecond)

		var seen []int
		th.Subscribe(func() { seen = append(seen, th.PeekValue()) })

		th.Set(1) // passes through immediately, closes the gate
		th.Set(2) // queued
		th.Set(3) // queued
		assert.Equal(t, []int{1}, seen)

		clock.Advance(100 * time.Millisecond) // drains 2, re-arms
		assert.Equal(t, []int{1, 2}, seen)

		clock.Advance(100 * time.Millisecond) // drains 3
		assert.Equal(t, []int{1, 2, 3}, seen)

		clock.Advance(100 * time.Millisecond) // queue empty, gate reopens
		assert.Equal(t, []int{1, 2, 3}, seen)

		th.Set(4) // gate open again, passes through immediately
		assert.Equal(t, []int{1, 2, 3, 4}, seen)
	})

	t.Run("drop blocked discards writes while closed", func(t *testing.T) {
		clock := NewFakeClock(time.Unix(0, 0))
		rt := New(WithSyncScheduler(), WithClock(clock))

		th := NewThrottled(rt, 0, 100*time.Millisecond, WithDropBlocked())

		var seen []int
		th.Subscribe(func() { seen = append(seen, th.PeekValue()) })

		th.Set(1)
		th.Set(2) // dropped
		clock.Advance(100 * time.Millisecond)
		th.Set(3) // gate reopened, passes through

		assert.Equal(t, []int{1, 3}, seen)
	})
}
