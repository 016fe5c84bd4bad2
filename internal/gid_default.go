//go:build !js

package internal

import "github.com/petermattis/goid"

// getGID returns an identifier for the calling goroutine, used by Tracker to
// guard against a runtime being driven from two goroutines at once.
// Grounded on the teacher's internal/runtime_default.go.
func getGID() int64 {
	return goid.Get()
}
