// Package interaction turns noisy pointer enter/leave streams into stable
// focus changes.
package interaction

import (
	"sync"
	"time"

	"github.com/dd0wney/cluso-netgraph/pkg/eventloop"
)

// Delay presets
const (
	DefaultEnterDelay = 50 * time.Millisecond
	DefaultLeaveDelay = 100 * time.Millisecond

	HoverEnterDelay = 10 * time.Millisecond
	HoverLeaveDelay = 100 * time.Millisecond

	SelectEnterDelay time.Duration = 0
	SelectLeaveDelay = 200 * time.Millisecond
)

// Phase is the debouncer's position in its enter/leave cycle
type Phase int

const (
	Idle Phase = iota
	PendingEnter
	Focused
	PendingLeave
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PendingEnter:
		return "pending-enter"
	case Focused:
		return "focused"
	case PendingLeave:
		return "pending-leave"
	default:
		return "unknown"
	}
}

// State is a committed focus
type State[T comparable] struct {
	Subject  T
	Kind     string
	Metadata map[string]any
}

// EnterFunc receives a committed enter
type EnterFunc[T comparable] func(subject T, kind string, metadata map[string]any)

// LeaveFunc receives the state that was committed when the leave was armed,
// or nil when nothing was focused
type LeaveFunc[T comparable] func(previous *State[T])

// Debouncer delays enter and leave transitions so that only transitions
// that persist for the configured delay are committed. All callbacks run on
// the scheduler's thread.
type Debouncer[T comparable] struct {
	mu         sync.Mutex
	sched      eventloop.Scheduler
	enterDelay time.Duration
	leaveDelay time.Duration

	enterTimer eventloop.Timer
	leaveTimer eventloop.Timer
	current    *State[T]
	phase      Phase
	// generation changes whenever a timer is armed or cancelled; a firing
	// timer whose generation is stale does nothing
	generation uint64
}

// New creates a debouncer
func New[T comparable](sched eventloop.Scheduler, enterDelay, leaveDelay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		sched:      sched,
		enterDelay: enterDelay,
		leaveDelay: leaveDelay,
	}
}

// OnEnter requests focus on subject. Re-entering the committed subject
// cancels pending timers and keeps the focus without calling cb.
func (d *Debouncer[T]) OnEnter(subject T, kind string, cb EnterFunc[T], metadata map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLeave()
	d.cancelEnter()

	if d.current != nil && d.current.Subject == subject && d.current.Kind == kind {
		d.phase = Focused
		return
	}

	d.phase = PendingEnter
	gen := d.generation
	d.enterTimer = d.sched.AfterFunc(d.enterDelay, func() {
		d.mu.Lock()
		if d.generation != gen {
			d.mu.Unlock()
			return
		}
		d.enterTimer = nil
		d.current = &State[T]{Subject: subject, Kind: kind, Metadata: metadata}
		d.phase = Focused
		d.mu.Unlock()

		if cb != nil {
			cb(subject, kind, metadata)
		}
	})
}

// OnLeave requests the focus be dropped. Any pending enter is abandoned and
// an earlier pending leave is re-armed.
func (d *Debouncer[T]) OnLeave(cb LeaveFunc[T]) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelEnter()
	d.cancelLeave()

	previous := d.current
	d.phase = PendingLeave
	gen := d.generation
	d.leaveTimer = d.sched.AfterFunc(d.leaveDelay, func() {
		d.mu.Lock()
		if d.generation != gen {
			d.mu.Unlock()
			return
		}
		d.leaveTimer = nil
		d.current = nil
		d.phase = Idle
		d.mu.Unlock()

		if cb != nil {
			cb(previous)
		}
	})
}

// Caller holds d.mu
func (d *Debouncer[T]) cancelEnter() {
	d.generation++
	if d.enterTimer != nil {
		d.enterTimer.Stop()
		d.enterTimer = nil
	}
}

// Caller holds d.mu
func (d *Debouncer[T]) cancelLeave() {
	d.generation++
	if d.leaveTimer != nil {
		d.leaveTimer.Stop()
		d.leaveTimer = nil
	}
}

// IsInState reports whether (subject, kind) is the committed focus
func (d *Debouncer[T]) IsInState(subject T, kind string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current != nil && d.current.Subject == subject && d.current.Kind == kind
}

// Current returns a copy of the committed focus, or nil
func (d *Debouncer[T]) Current() *State[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return nil
	}
	s := *d.current
	return &s
}

// Phase returns the current phase
func (d *Debouncer[T]) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// SetDelays changes the delays used by timers armed from now on
func (d *Debouncer[T]) SetDelays(enterDelay, leaveDelay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enterDelay = enterDelay
	d.leaveDelay = leaveDelay
}

// Cleanup cancels both timers and forgets the committed focus. No callback
// armed before Cleanup will run.
func (d *Debouncer[T]) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelEnter()
	d.cancelLeave()
	d.current = nil
	d.phase = Idle
}
