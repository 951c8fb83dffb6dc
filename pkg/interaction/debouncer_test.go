package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netgraph/pkg/eventloop"
)

type recorder struct {
	enters []string
	leaves []*State[string]
}

func (r *recorder) enter(subject, kind string, _ map[string]any) {
	r.enters = append(r.enters, subject+"/"+kind)
}

func (r *recorder) leave(prev *State[string]) {
	r.leaves = append(r.leaves, prev)
}

func newHover() (*Debouncer[string], *eventloop.Manual, *recorder) {
	clock := eventloop.NewManual()
	return New[string](clock, 50*time.Millisecond, 100*time.Millisecond), clock, &recorder{}
}

func TestEnterCommitsAfterDelay(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, map[string]any{"x": 1})
	assert.Equal(t, PendingEnter, d.Phase())
	assert.Nil(t, d.Current())

	clock.Advance(49 * time.Millisecond)
	assert.Empty(t, rec.enters)

	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"a/node"}, rec.enters)
	assert.Equal(t, Focused, d.Phase())
	assert.True(t, d.IsInState("a", "node"))
	assert.False(t, d.IsInState("a", "link"))
	require.NotNil(t, d.Current())
	assert.Equal(t, 1, d.Current().Metadata["x"])
}

func TestEnterEnterFiresOnce(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, nil)
	clock.Advance(30 * time.Millisecond)
	d.OnEnter("b", "node", rec.enter, nil)
	clock.Advance(30 * time.Millisecond)
	assert.Empty(t, rec.enters, "the second enter restarts the delay")

	clock.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"b/node"}, rec.enters)
}

func TestEnterThenLeaveNeverFires(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, nil)
	clock.Advance(20 * time.Millisecond)
	d.OnLeave(rec.leave)
	assert.Equal(t, PendingLeave, d.Phase())

	clock.Advance(time.Second)
	assert.Empty(t, rec.enters)
	require.Len(t, rec.leaves, 1)
	assert.Nil(t, rec.leaves[0], "nothing was focused when the leave was armed")
	assert.Equal(t, Idle, d.Phase())
}

func TestReenterFocusedIsNoop(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, nil)
	clock.Advance(50 * time.Millisecond)
	d.OnEnter("a", "node", rec.enter, nil)
	assert.Equal(t, Focused, d.Phase())
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"a/node"}, rec.enters)
}

func TestReenterDuringPendingLeaveKeepsFocus(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, nil)
	clock.Advance(50 * time.Millisecond)
	d.OnLeave(rec.leave)
	clock.Advance(50 * time.Millisecond)
	d.OnEnter("a", "node", rec.enter, nil)

	clock.Advance(time.Second)
	assert.Empty(t, rec.leaves)
	assert.Equal(t, Focused, d.Phase())
	assert.Equal(t, []string{"a/node"}, rec.enters)
}

func TestReturnToCommittedCancelsPendingEnter(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, nil)
	clock.Advance(50 * time.Millisecond)
	d.OnEnter("b", "node", rec.enter, nil)
	clock.Advance(10 * time.Millisecond)
	d.OnEnter("a", "node", rec.enter, nil)
	assert.Equal(t, Focused, d.Phase())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"a/node"}, rec.enters)
	assert.True(t, d.IsInState("a", "node"))
}

func TestLeaveReceivesPreviousState(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "link", rec.enter, map[string]any{"k": "v"})
	clock.Advance(50 * time.Millisecond)
	d.OnLeave(rec.leave)
	clock.Advance(100 * time.Millisecond)

	require.Len(t, rec.leaves, 1)
	require.NotNil(t, rec.leaves[0])
	assert.Equal(t, "a", rec.leaves[0].Subject)
	assert.Equal(t, "link", rec.leaves[0].Kind)
	assert.Equal(t, "v", rec.leaves[0].Metadata["k"])
	assert.Nil(t, d.Current())
}

func TestLeaveLeaveRearms(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, nil)
	clock.Advance(50 * time.Millisecond)
	d.OnLeave(rec.leave)
	clock.Advance(80 * time.Millisecond)
	d.OnLeave(rec.leave)
	clock.Advance(80 * time.Millisecond)
	assert.Empty(t, rec.leaves)

	clock.Advance(20 * time.Millisecond)
	require.Len(t, rec.leaves, 1)
	assert.Equal(t, "a", rec.leaves[0].Subject)
}

func TestCleanupCancelsEverything(t *testing.T) {
	d, clock, rec := newHover()

	d.OnEnter("a", "node", rec.enter, nil)
	clock.Advance(50 * time.Millisecond)
	d.OnEnter("b", "node", rec.enter, nil)
	d.Cleanup()

	assert.Equal(t, Idle, d.Phase())
	assert.Nil(t, d.Current())
	assert.Equal(t, 0, clock.Pending())

	d.OnLeave(rec.leave)
	d.Cleanup()
	clock.Advance(time.Second)
	assert.Equal(t, []string{"a/node"}, rec.enters)
	assert.Empty(t, rec.leaves)
}

func TestCleanupFromCallbackDropsQueuedTimer(t *testing.T) {
	clock := eventloop.NewManual()
	d := New[string](clock, 10*time.Millisecond, 10*time.Millisecond)
	fired := false

	// Both timers fall due in the same Advance; the first cleans up.
	clock.AfterFunc(5*time.Millisecond, d.Cleanup)
	d.OnEnter("a", "node", func(string, string, map[string]any) { fired = true }, nil)
	clock.Advance(time.Second)
	assert.False(t, fired)
}

func TestSetDelays(t *testing.T) {
	d, clock, rec := newHover()
	d.SetDelays(SelectEnterDelay, SelectLeaveDelay)

	d.OnEnter("a", "select", rec.enter, nil)
	clock.Flush()
	assert.Equal(t, []string{"a/select"}, rec.enters)

	d.OnLeave(rec.leave)
	clock.Advance(199 * time.Millisecond)
	assert.Empty(t, rec.leaves)
	clock.Advance(time.Millisecond)
	assert.Len(t, rec.leaves, 1)
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		Idle:         "idle",
		PendingEnter: "pending-enter",
		Focused:      "focused",
		PendingLeave: "pending-leave",
		Phase(9):     "unknown",
	}
	for p, want := range tests {
		assert.Equal(t, want, p.String())
	}
}
