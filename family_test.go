package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFamily(t *testing.T) {
	t.Run("caches by key", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var builds int
		f := NewFamily(func(key string) *Writable[string] {
			builds++
			return NewWritable(rt, key)
		})

		a1 := f.Get("a")
		a2 := f.Get("a")
		assert.Same(t, a1, a2)
		assert.Equal(t, 1, builds)

		f.Get("b")
		assert.Equal(t, 2, builds)
		assert.Equal(t, 2, f.Len())

		f.Clear()
		assert.Equal(t, 0, f.Len())
		f.Get("a")
		assert.Equal(t, 3, builds)
	})

	t.Run("WithFamilyCache(false) builds fresh every lookup", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var builds int
		f := NewFamily(func(key string) *Writable[string] {
			builds++
			return NewWritable(rt, key)
		}, WithFamilyCache(false))

		a1 := f.Get("a")
		a2 := f.Get("a")
		assert.NotSame(t, a1, a2)
		assert.Equal(t, 2, builds)
		assert.Equal(t, 0, f.Len())
	})
}
