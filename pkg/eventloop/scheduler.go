// Package eventloop owns every timer in the layout core. Components never
// call time.AfterFunc directly; they arm timers through a Scheduler so that
// all callbacks run on one logical thread and tests can drive time by hand.
package eventloop

import "time"

// Scheduler arms one-shot timers.
type Scheduler interface {
	// AfterFunc runs f once, no earlier than d from now, on the scheduler's
	// thread of control.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a callback armed with AfterFunc.
type Timer interface {
	// Stop prevents the callback from running. It reports whether this call
	// stopped it; false means the callback already ran or was already stopped.
	Stop() bool
}

// Poster accepts tasks for the scheduler's thread of control.
type Poster interface {
	Post(f func()) bool
}

// Timer states shared by the Loop and Manual implementations.
const (
	timerPending int32 = iota
	timerStopped
	timerFired
)
