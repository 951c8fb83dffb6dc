package eventloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual()
	var order []string

	m.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, m.Pending())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_NowTracksFiringTime(t *testing.T) {
	m := NewManual()
	start := m.Now()
	var seen time.Duration

	m.AfterFunc(15*time.Millisecond, func() { seen = m.Now().Sub(start) })
	m.Advance(time.Second)

	assert.Equal(t, 15*time.Millisecond, seen)
	assert.Equal(t, time.Second, m.Now().Sub(start))
}

func TestManual_TimersArmedDuringAdvance(t *testing.T) {
	m := NewManual()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		m.AfterFunc(16*time.Millisecond, tick)
	}
	m.AfterFunc(16*time.Millisecond, tick)

	m.Advance(160 * time.Millisecond)
	assert.Equal(t, 10, ticks)
	assert.Equal(t, 1, m.Pending())
}

func TestManual_Stop(t *testing.T) {
	m := NewManual()
	fired := false
	timer := m.AfterFunc(time.Millisecond, func() { fired = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second Stop reports nothing stopped")

	m.Advance(time.Second)
	assert.False(t, fired)

	done := m.AfterFunc(0, func() {})
	m.Flush()
	assert.False(t, done.Stop(), "Stop after firing returns false")
}

func TestManual_StopFromCallback(t *testing.T) {
	m := NewManual()
	fired := false
	var later Timer
	m.AfterFunc(5*time.Millisecond, func() { later.Stop() })
	later = m.AfterFunc(10*time.Millisecond, func() { fired = true })

	m.Advance(20 * time.Millisecond)
	assert.False(t, fired)
}

func TestManual_PostRunsBeforeTimers(t *testing.T) {
	m := NewManual()
	var order []string
	m.AfterFunc(0, func() { order = append(order, "timer") })
	m.Post(func() { order = append(order, "task") })

	m.Flush()
	assert.Equal(t, []string{"task", "timer"}, order)
}

func TestManual_NegativeDelayIsImmediate(t *testing.T) {
	m := NewManual()
	fired := false
	m.AfterFunc(-time.Second, func() { fired = true })
	m.Flush()
	assert.True(t, fired)
}
