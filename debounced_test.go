package beacon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounced(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	rt := New(WithSyncScheduler(), WithClock(clock))

	d := NewDebounced(rt, 0, 100*time.Millisecond)

	var values []int
	d.Subscribe(func() { values = append(values, d.PeekValue()) })

	d.Set(1)
	clock.Advance(50 * time.Millisecond)
	d.Set(2) // restarts the timer; 1 never commits
	clock.Advance(50 * time.Millisecond)
	assert.Empty(t, values)

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{2}, values)
	assert.Equal(t, 2, d.Read())
}
