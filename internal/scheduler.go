package internal

import "errors"

// Tick is the scheduler's logical clock: it advances once per flush pass,
// and Producer.Version()/SetVersion use it to stamp writes for staleness
// diagnostics.
type Tick int64

// maxFlushIterations bounds the number of drain passes a single Run call
// will perform before concluding a feedback loop exists, mirroring the
// teacher's internal/scheduler.go safeguard.
const maxFlushIterations = 100_000

// ErrInfiniteUpdateLoop is returned by Scheduler.Run when a single flush
// re-schedules itself more than maxFlushIterations times.
var ErrInfiniteUpdateLoop = errors.New("beacon: possible infinite update loop detected")

// Scheduler tracks whether a flush has been requested and whether one is
// currently running, and drives the drain loop. Grounded on the teacher's
// internal/scheduler.go.
type Scheduler struct {
	clock     int64
	scheduled bool
	running   bool
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler { return &Scheduler{} }

// Schedule marks the scheduler dirty; the next Run call will perform at
// least one drain pass.
func (s *Scheduler) Schedule() { s.scheduled = true }

// IsScheduled reports whether a flush is pending.
func (s *Scheduler) IsScheduled() bool { return s.scheduled }

// IsRunning reports whether Run is currently executing (reentrant calls are
// no-ops, since a drain already in progress will pick up anything newly
// scheduled).
func (s *Scheduler) IsRunning() bool { return s.running }

// Time returns the current tick.
func (s *Scheduler) Time() int64 { return s.clock }

// Run drains repeatedly while the scheduler remains marked dirty, invoking
// fn once per pass. Reentrant calls while already running are no-ops: the
// in-progress Run will observe anything scheduled during fn.
func (s *Scheduler) Run(fn func()) error {
	if s.running {
		return nil
	}
	s.running = true
	defer func() { s.running = false }()

	count := 0
	for s.scheduled {
		s.scheduled = false

		count++
		if count > maxFlushIterations {
			return ErrInfiniteUpdateLoop
		}

		s.clock++
		fn()
	}

	return nil
}
