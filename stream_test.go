package beacon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream is a minimal Stream[T] implementation a test drives by hand.
type fakeStream[T any] struct {
	send func(T)
	err  func(error)
	done func()
	subs int
}

func (f *fakeStream[T]) Subscribe(send func(T), err func(error), done func()) func() {
	f.send, f.err, f.done = send, err, done
	f.subs++
	return func() { f.subs-- }
}

func TestFromStream(t *testing.T) {
	t.Run("pushes map to Data transitions", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		src := &fakeStream[int]{}
		s := FromStream[int](rt, src, false)

		assert.Equal(t, AsyncIdle, s.Status().State)

		src.send(1)
		assert.Equal(t, AsyncData, s.Status().State)
		v, ok := s.Status().Data()
		require.True(t, ok)
		assert.Equal(t, 1, v)

		src.send(2)
		v, ok = s.Status().Data()
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("error preserves previous data and, with cancelOnError, unsubscribes", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		src := &fakeStream[int]{}
		s := FromStream[int](rt, src, true)

		src.send(7)
		assert.Equal(t, 1, src.subs)

		boom := errors.New("boom")
		src.err(boom)

		status := s.Status()
		assert.Equal(t, AsyncError, status.State)
		assert.Equal(t, boom, status.Err)
		require.True(t, status.HasPrevious())
		assert.Equal(t, 7, *status.Previous)
		assert.Equal(t, 0, src.subs)
	})

	t.Run("error without cancelOnError keeps the subscription alive", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		src := &fakeStream[int]{}
		s := FromStream[int](rt, src, false)

		src.err(errors.New("boom"))
		assert.Equal(t, 1, src.subs)

		src.send(9)
		v, ok := s.Status().Data()
		require.True(t, ok)
		assert.Equal(t, 9, v)
	})
}

func TestFromFuture(t *testing.T) {
	t.Run("resolves to data", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		s := FromFuture[int](rt, func(ctx context.Context) (int, error) {
			return 42, nil
		})

		require.Eventually(t, func() bool {
			return s.Status().State == AsyncData
		}, 2*time.Second, time.Millisecond)

		v, ok := s.Status().Data()
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("resolves to error", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		boom := errors.New("boom")
		s := FromFuture[int](rt, func(ctx context.Context) (int, error) {
			return 0, boom
		})

		require.Eventually(t, func() bool {
			return s.Status().State == AsyncError
		}, 2*time.Second, time.Millisecond)

		assert.Equal(t, boom, s.Status().Err)
	})
}

func TestToStream(t *testing.T) {
	rt := New(WithSyncScheduler())
	w := NewWritable(rt, 1)

	var seen []int
	var canceled bool
	unsubscribe := ToStream[int](rt, w, func(v int) { seen = append(seen, v) }, func() { canceled = true })

	assert.Equal(t, []int{1}, seen) // sink fires immediately on subscribe

	w.Set(2)
	assert.Equal(t, []int{1, 2}, seen)

	unsubscribe()
	assert.True(t, canceled)

	w.Set(3)
	assert.Equal(t, []int{1, 2}, seen) // no longer listening
}

func TestNext(t *testing.T) {
	t.Run("resolves on the first matching value", func(t *testing.T) {
		rt := New(WithSyncScheduler())
		w := NewWritable(rt, 0)

		out := Next[int](rt, w, func(v int) bool { return v > 5 }, nil)

		w.Set(3) // doesn't match, ignored
		select {
		case <-out:
			t.Fatal("future resolved before a matching value was written")
		default:
		}

		w.Set(10)
		select {
		case v := <-out:
			assert.Equal(t, 10, v)
		case <-time.After(time.Second):
			t.Fatal("future never resolved")
		}

		w.Set(20) // no further effect; channel already closed after one value
	})

	t.Run("resolves with the current value on timeout", func(t *testing.T) {
		clock := NewFakeClock(time.Unix(0, 0))
		rt := New(WithSyncScheduler(), WithClock(clock))
		w := NewWritable(rt, 5)

		timeout := func(fn func()) CancelFunc {
			return clock.AfterFunc(time.Second, fn)
		}

		out := Next[int](rt, w, func(v int) bool { return v > 100 }, timeout)

		clock.Advance(time.Second)
		select {
		case v := <-out:
			assert.Equal(t, 5, v)
		case <-time.After(time.Second):
			t.Fatal("future never resolved on timeout")
		}
	})
}
