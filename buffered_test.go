package beacon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedCount(t *testing.T) {
	rt := New(WithSyncScheduler())
	b := NewBufferedCount(rt, 0, 3)

	assert.Nil(t, b.Peek())

	b.Set(1)
	assert.Nil(t, b.Peek())

	b.Set(2) // seed(0), 1, 2 => n=3 reached, including the seed
	assert.Equal(t, []int{0, 1, 2}, b.Read())

	b.Set(3)
	b.Set(4)
	assert.Equal(t, []int{0, 1, 2}, b.Read()) // unchanged until the next flush

	b.Set(5)
	assert.Equal(t, []int{3, 4, 5}, b.Read())
}

func TestBufferedTime(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	rt := New(WithSyncScheduler(), WithClock(clock))

	b := NewBufferedTime[int](rt, 100*time.Millisecond)
	assert.Nil(t, b.Peek())

	b.Set(1)
	b.Set(2)
	clock.Advance(100 * time.Millisecond)
	require.NotNil(t, b.Peek())
	assert.Equal(t, []int{1, 2}, b.Read())

	clock.Advance(100 * time.Millisecond) // nothing buffered, no flush
	assert.Equal(t, []int{1, 2}, b.Read())

	b.Set(3)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []int{3}, b.Read())
}
