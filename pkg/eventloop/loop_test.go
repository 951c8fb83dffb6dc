package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, <-chan error) {
	t.Helper()
	l := NewLoop(nil)
	errc := make(chan error, 1)
	go func() { errc <- l.Run(context.Background()) }()
	t.Cleanup(l.Close)
	return l, errc
}

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l, _ := startLoop(t)

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 99 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}
	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_PostFromTask(t *testing.T) {
	l, _ := startLoop(t)
	done := make(chan struct{})
	l.Post(func() {
		l.Post(func() { close(done) })
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nested task did not run")
	}
}

func TestLoop_TimerRunsOnLoop(t *testing.T) {
	l, _ := startLoop(t)
	done := make(chan struct{})
	l.Post(func() {
		l.AfterFunc(5*time.Millisecond, func() { close(done) })
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoop_StoppedTimerNeverFires(t *testing.T) {
	l, _ := startLoop(t)
	fired := make(chan struct{}, 1)
	stopped := make(chan bool, 1)

	l.Post(func() {
		timer := l.AfterFunc(time.Millisecond, func() { fired <- struct{}{} })
		// Block the loop past the deadline so the callback is queued behind us.
		time.Sleep(20 * time.Millisecond)
		stopped <- timer.Stop()
	})

	require.True(t, <-stopped)
	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	l, _ := startLoop(t)
	done := make(chan struct{})
	l.Post(func() { panic("boom") })
	l.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped after panic")
	}
}

func TestLoop_CloseAndContext(t *testing.T) {
	l, errc := startLoop(t)
	l.Close()
	assert.ErrorIs(t, <-errc, ErrClosed)
	assert.False(t, l.Post(func() {}), "Post after Close is rejected")

	ctx, cancel := context.WithCancel(context.Background())
	l2 := NewLoop(nil)
	errc2 := make(chan error, 1)
	go func() { errc2 <- l2.Run(ctx) }()
	cancel()
	assert.ErrorIs(t, <-errc2, context.Canceled)
	assert.Error(t, l2.Run(context.Background()), "Run twice is rejected")
}
