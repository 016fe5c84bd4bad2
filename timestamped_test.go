package beacon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamped(t *testing.T) {
	clock := NewFakeClock(time.Unix(100, 0))
	rt := New(WithSyncScheduler(), WithClock(clock))

	ts := NewTimestamped(rt, "a")
	first := ts.Read()
	assert.Equal(t, "a", first.Value)
	assert.True(t, first.At.Equal(time.Unix(100, 0)))

	clock.Advance(5 * time.Second)
	ts.Set("a") // same value, equality-gated: no new stamp
	assert.True(t, ts.Read().At.Equal(time.Unix(100, 0)))

	ts.Set("b")
	second := ts.Read()
	assert.Equal(t, "b", second.Value)
	assert.True(t, second.At.Equal(time.Unix(105, 0)))
}
