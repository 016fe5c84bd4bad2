package beacon

import "github.com/hashicorp/go-multierror"

// Disposable is any cell or effect handle with a Dispose method; every
// constructor in this package returns one.
type Disposable interface {
	Dispose()
}

// Resettable is implemented by cell types whose Reset can fail (currently
// just Writable; §4.11 also calls out buffered and async cells, which this
// package's buffered/async types intentionally do not implement since
// "reset to initial" is not well-defined for an accumulating buffer or a
// running async computation).
type Resettable interface {
	Reset() error
}

// Group is a bulk-lifetime container (§4.11): every cell and effect
// created through it is recorded, so DisposeAll and ResetAll act on the
// whole set in one call without the caller tracking handles individually.
type Group struct {
	rt *Runtime

	cells     []Disposable
	resetters []Resettable
	disposers []func()
}

// NewGroup creates an empty group bound to rt. Cells and effects created
// directly (not through the group's Track methods) are unaffected by
// DisposeAll/ResetAll.
func NewGroup(rt *Runtime) *Group {
	return &Group{rt: rt}
}

// Track registers an already-constructed cell or effect with the group,
// returning it unchanged so calls can be chained: beacon.Track(g, beacon.NewWritable(rt, 0)).
func Track[C Disposable](g *Group, c C) C {
	g.cells = append(g.cells, c)
	if r, ok := any(c).(Resettable); ok {
		g.resetters = append(g.resetters, r)
	}
	return c
}

// TrackDisposer additionally registers fn as a disposer to run before cell
// disposal during DisposeAll — the extra per-creation-method disposer §4.11
// calls out for effects and families (an effect's own Dispose already does
// this; TrackDisposer exists for constructs, like a Family, that aren't
// themselves Disposable but still need group-driven teardown).
func (g *Group) TrackDisposer(fn func()) {
	g.disposers = append(g.disposers, fn)
}

// DisposeAll runs every registered disposer, then disposes every registered
// cell, in registration order.
func (g *Group) DisposeAll() {
	for _, d := range g.disposers {
		d()
	}
	g.disposers = nil

	for _, c := range g.cells {
		c.Dispose()
	}
	g.cells = nil
	g.resetters = nil
}

// ResetAll resets every registered cell that supports Reset, collecting
// every error (a never-written cell returns ErrUninitialized) into one
// *multierror.Error; returns nil if every reset succeeded.
func (g *Group) ResetAll() error {
	var result *multierror.Error
	for _, r := range g.resetters {
		if err := r.Reset(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Len reports how many cells are currently tracked.
func (g *Group) Len() int { return len(g.cells) }
