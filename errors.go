package beacon

import (
	"errors"
	"fmt"
)

// Sentinel errors for every semantic error kind named in the spec. Callers
// match them with errors.Is; BeaconError wraps one of these together with
// the offending cell's name for diagnostics.
var (
	ErrLazyRead            = errors.New("beacon: read of an empty cell")
	ErrCircularDependency  = errors.New("beacon: circular dependency detected")
	ErrWrapTargetWrongType = errors.New("beacon: wrap target value type does not match receiver")
	ErrWrapEmptyTarget     = errors.New("beacon: wrap target is empty and startNow was requested")
	ErrUninitialized       = errors.New("beacon: reset of a never-written cell")
	ErrDisposed            = errors.New("beacon: operation on a disposed cell")
)

// BeaconError wraps one of the sentinel errors above together with the name
// of the cell that raised it, so %w-based errors.Is matching keeps working
// while log lines and test failures carry a useful label.
type BeaconError struct {
	Kind     error
	CellName string
}

func (e *BeaconError) Error() string {
	if e.CellName == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s (cell %q)", e.Kind.Error(), e.CellName)
}

func (e *BeaconError) Unwrap() error { return e.Kind }

func wrapErr(kind error, name string) *BeaconError {
	return &BeaconError{Kind: kind, CellName: name}
}
