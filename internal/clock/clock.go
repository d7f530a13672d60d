// internal/clock/clock.go
//
// Time source for the game engine.
// The engine never sleeps; it schedules callbacks through a Clock so that
// the one-second tick and the feedback delay can be driven deterministically
// in tests (see Manual) and by the wall clock in production (see Real).

package clock

import "time"

// Clock provides the current time and one-shot scheduled callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback returned by AfterFunc.
type Timer interface {
	// Stop prevents the callback from firing. It reports false if the
	// callback already fired or was stopped.
	Stop() bool
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
