package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListCell(t *testing.T) {
	rt := New(WithSyncScheduler())
	l := NewListCell(rt, []int{1, 2})

	var notifications int
	l.Subscribe(func() { notifications++ })

	assert.Equal(t, []int{1, 2}, l.Read())
	assert.Equal(t, 2, l.Len())

	l.Append(3, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, l.Read())
	assert.Equal(t, 1, notifications)

	l.Set(0, 9)
	assert.Equal(t, []int{9, 2, 3, 4}, l.Read())

	l.RemoveAt(1)
	assert.Equal(t, []int{9, 3, 4}, l.Read())

	l.RemoveAt(99) // out of range, no-op
	assert.Equal(t, 3, notifications)

	l.Clear()
	assert.Equal(t, []int{}, l.Read())
	assert.Equal(t, 4, notifications)

	l.Clear() // already empty, no-op
	assert.Equal(t, 4, notifications)

	// mutating the slice returned by Read must not affect the cell's state
	snap := l.Read()
	l.Append(5)
	snap = append(snap, 100)
	assert.Equal(t, []int{5}, l.Read())
	_ = snap
}

func TestSetCell(t *testing.T) {
	rt := New(WithSyncScheduler())
	s := NewSetCell(rt, []string{"a", "b"})

	var notifications int
	s.Subscribe(func() { notifications++ })

	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("z"))

	s.Add("a") // already present, no-op
	assert.Equal(t, 0, notifications)

	s.Add("c")
	assert.True(t, s.Has("c"))
	assert.Equal(t, 1, notifications)

	s.Remove("z") // absent, no-op
	assert.Equal(t, 1, notifications)

	s.Remove("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 2, notifications)
}

func TestMapCell(t *testing.T) {
	rt := New(WithSyncScheduler())
	m := NewMapCell(rt, map[string]int{"a": 1})

	var notifications int
	m.Subscribe(func() { notifications++ })

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m.Set("a", 1) // Set always notifies, even with an identical value
	assert.Equal(t, 1, notifications)

	m.Set("b", 2)
	v, ok = m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, notifications)

	m.Delete("z") // absent, no-op
	assert.Equal(t, 2, notifications)

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 3, notifications)
}
