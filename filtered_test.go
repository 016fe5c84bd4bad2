package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiltered(t *testing.T) {
	rt := New(WithSyncScheduler())

	f := NewFiltered[int](rt, func(prev, next int) bool { return next > prev })
	assert.Nil(t, f.Peek())

	f.Set(5) // first write always passes, regardless of the predicate
	assert.Equal(t, 5, f.Read())

	f.Set(3) // not greater than 5, rejected
	assert.Equal(t, 5, f.Read())

	f.Set(10)
	assert.Equal(t, 10, f.Read())

	f.Set(1, true) // force bypasses the predicate
	assert.Equal(t, 1, f.Read())

	f.SetPredicate(func(prev, next int) bool { return next%2 == 0 })
	f.Set(2)
	assert.Equal(t, 2, f.Read())
	f.Set(3)
	assert.Equal(t, 2, f.Read())
}
