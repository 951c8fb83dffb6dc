package eventloop

import (
	"sync"
	"time"
)

// Manual is a virtual-time scheduler. Timers fire only inside Advance, on the
// calling goroutine, in due-time order with ties broken by arming order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
	posted []func()
}

type manualTimer struct {
	m     *Manual
	due   time.Time
	seq   uint64
	f     func()
	state int32
}

// NewManual creates a virtual clock starting at the Unix epoch.
func NewManual() *Manual {
	return &Manual{now: time.Unix(0, 0).UTC()}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of armed timers that have not fired or stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// AfterFunc arms f to run once virtual time reaches now+d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, due: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Post queues f to run at the start of the next Advance (or Flush).
func (m *Manual) Post(f func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, f)
	return true
}

// Flush runs posted tasks and timers already due, without moving the clock.
func (m *Manual) Flush() {
	m.Advance(0)
}

// Advance moves virtual time forward by d, firing every timer that becomes
// due, including timers armed by callbacks while advancing.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.runPosted()

		m.mu.Lock()
		idx := m.earliest(target)
		if idx < 0 {
			m.now = target
			m.mu.Unlock()
			return
		}
		t := m.timers[idx]
		m.timers = append(m.timers[:idx], m.timers[idx+1:]...)
		t.state = timerFired
		if t.due.After(m.now) {
			m.now = t.due
		}
		m.mu.Unlock()

		t.f()
	}
}

func (m *Manual) runPosted() {
	for {
		m.mu.Lock()
		if len(m.posted) == 0 {
			m.mu.Unlock()
			return
		}
		f := m.posted[0]
		m.posted = m.posted[1:]
		m.mu.Unlock()
		f()
	}
}

// earliest returns the index of the next due timer at or before target, or -1.
// Caller holds m.mu.
func (m *Manual) earliest(target time.Time) int {
	best := -1
	for i, t := range m.timers {
		if t.due.After(target) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := m.timers[best]
		if t.due.Before(b.due) || (t.due.Equal(b.due) && t.seq < b.seq) {
			best = i
		}
	}
	return best
}

func (t *manualTimer) Stop() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.state != timerPending {
		return false
	}
	t.state = timerStopped
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			break
		}
	}
	return true
}
