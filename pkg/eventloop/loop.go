package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/cluso-netgraph/pkg/logging"
)

// ErrClosed is returned by Run once the loop has been closed.
var ErrClosed = errors.New("event loop closed")

// Loop runs tasks one at a time on a single goroutine. Pointer events,
// resize notifications, simulation ticks and debounce timers all post onto
// the same loop, so none of them ever interleave.
type Loop struct {
	mu      sync.Mutex // Protects queue and closed
	queue   []func()
	closed  bool
	wake    chan struct{}
	quit    chan struct{}
	once    sync.Once
	running atomic.Bool
	logger  logging.Logger
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop(logger logging.Logger) *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		logger: logging.OrNop(logger).With(logging.Component("eventloop")),
	}
}

// Post queues f to run on the loop goroutine.
// Returns false if the loop is closed, true if the task was queued.
func (l *Loop) Post(f func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run drains the task queue until ctx is done or Close is called. It must be
// called at most once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("event loop already running")
	}
	for {
		for {
			task, ok := l.next()
			if !ok {
				break
			}
			l.runTask(task)
		}

		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.quit:
			return ErrClosed
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}

func (l *Loop) runTask(task func()) {
	// Recover from panics in tasks so one bad handler cannot stop the loop
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panic recovered", logging.Any("panic", r))
		}
	}()
	task()
}

// Close stops the loop. Queued tasks that have not started are dropped.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.queue = nil
		l.mu.Unlock()
		close(l.quit)
	})
}

// AfterFunc arms a real-time timer whose callback is posted onto the loop.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				f()
			}
		})
	})
	return t
}

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

// Stop is safe from any goroutine. Called on the loop goroutine it also
// covers a callback that is already queued but has not run.
func (t *loopTimer) Stop() bool {
	if !t.state.CompareAndSwap(timerPending, timerStopped) {
		return false
	}
	t.timer.Stop()
	return true
}
