// Package watchtime provides the engine's view of time. The engine never
// reads the wall clock directly; it is handed a Clock so that dispute and
// arbitration windows can be driven deterministically in tests.
package watchtime

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is the external time source supplied by the environment.
type Clock = clock.Clock

// New returns a Clock backed by the system clock.
func New() Clock {
	return clock.New()
}

// NewMock returns a manually advanced Clock for tests.
func NewMock() *clock.Mock {
	return clock.NewMock()
}

// WithinWindow reports whether now still falls inside the window that
// opened at start. The boundary instant itself is inside the window.
func WithinWindow(start time.Time, window time.Duration, now time.Time) bool {
	return !now.After(start.Add(window))
}
