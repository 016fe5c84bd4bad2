package beacon

import "time"

// CancelFunc cancels a scheduled timer callback. Calling it after the
// callback has already fired, or calling it twice, is a no-op.
type CancelFunc func()

// Clock is the injectable time source every time operator (§4.7) is built
// on: "schedule callback after D". Tests use FakeClock so S2–S4 and S6 run
// without real sleeps; production code uses RealClock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

type realClock struct{}

// RealClock returns the wall-clock Clock implementation backed by
// time.AfterFunc.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
