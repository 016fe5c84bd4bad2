package beacon

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect(t *testing.T) {
	t.Run("runs on change with cleanup", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var log []string

		count := NewWritable(rt, 0)
		log = append(log, fmt.Sprintf("%d", count.Read()))

		NewEffect(rt, func() func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))
			return func() { log = append(log, "cleanup") }
		})

		count.Set(10)
		log = append(log, fmt.Sprintf("%d", count.Read()))
		count.Set(20)

		assert.Equal(t, []string{
			"0",
			"changed 0",
			"cleanup",
			"changed 10",
			"10",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("writes to another writable", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var log []string

		count := NewWritable(rt, 0)
		double := NewWritable(rt, 0)

		NewEffect(rt, func() func() {
			double.Set(count.Read() * 2)
			return nil
		})

		NewEffect(rt, func() func() {
			log = append(log, fmt.Sprintf("changed %d", double.Read()))
			return func() { log = append(log, "cleanup") }
		})

		count.Set(10)

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("sync effects run before user effects", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var log []string

		count := NewWritable(rt, 0)

		NewEffect(rt, func() func() {
			log = append(log, fmt.Sprintf("user %d", count.Read()))
			return nil
		})
		NewEffect(rt, func() func() {
			log = append(log, fmt.Sprintf("sync %d", count.Read()))
			return nil
		}, WithEffectSync())

		log = nil
		count.Set(1)

		assert.Equal(t, []string{"sync 1", "user 1"}, log)
	})

	t.Run("re-tracking drops a dependency no longer read", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var runs int

		count := NewWritable(rt, 0)
		initialized := false
		NewEffect(rt, func() func() {
			runs++
			if !initialized {
				count.Read()
			}
			initialized = true
			return nil
		})

		count.Set(1)
		count.Set(2) // effect re-tracked after its first run and dropped count

		assert.Equal(t, 2, runs)
	})

	t.Run("conditional=false keeps the first dependency set", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var runs int

		count := NewWritable(rt, 0)
		NewEffect(rt, func() func() {
			runs++
			count.Read()
			return nil
		}, WithEffectConditional(false))

		count.Set(1)
		count.Set(2) // the link from the first run is permanent, so both re-run it

		assert.Equal(t, 3, runs)
	})

	t.Run("dispose runs pending cleanup", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		var log []string

		count := NewWritable(rt, 0)
		e := NewEffect(rt, func() func() {
			log = append(log, "run")
			return func() { log = append(log, "cleanup") }
		})

		e.Dispose()
		count.Set(1) // disposed effect must not re-run

		assert.Equal(t, []string{"run", "cleanup"}, log)
	})

	t.Run("writing a writable from inside an effect that reads it is circular", func(t *testing.T) {
		rt := New(WithSyncScheduler())

		count := NewWritable(rt, 0)
		other := NewWritable(rt, "unrelated")

		e := NewEffect(rt, func() func() {
			count.Set(count.Read() + 1)
			return nil
		})

		assert.True(t, errors.Is(e.LastError(), ErrCircularDependency))
		assert.Equal(t, 0, count.PeekValue())

		// the graph remains usable: an unrelated cell keeps working, and so
		// does the writable the cycle was detected on.
		other.Set("still works")
		assert.Equal(t, "still works", other.Read())

		count.Set(5)
		assert.Equal(t, 5, count.Read())
	})
}
