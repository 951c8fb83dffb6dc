package health

import (
	"fmt"
	"runtime"
	"time"

	"github.com/dd0wney/cluso-netgraph/pkg/eventloop"
)

// EventLoopCheck posts a no-op onto the loop and waits up to timeout for it
// to run. A loop stuck in a long task, or closed, is unhealthy.
func EventLoopCheck(loop eventloop.Poster, timeout time.Duration) CheckFunc {
	return func() Check {
		check := Check{Name: "eventloop"}

		done := make(chan struct{})
		start := time.Now()
		if !loop.Post(func() { close(done) }) {
			check.Status = StatusUnhealthy
			check.Message = "Event loop closed"
			return check
		}

		select {
		case <-done:
			check.Status = StatusHealthy
			check.Message = "Responsive"
			check.Details = map[string]any{"latency_ms": time.Since(start).Milliseconds()}
		case <-time.After(timeout):
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("No response within %v", timeout)
		}
		return check
	}
}

// LayoutCheck reports readiness once a layout is mounted. A mounted layout
// that has not produced a frame yet is degraded.
func LayoutCheck(state func() (mounted bool, frames uint64)) CheckFunc {
	return func() Check {
		check := Check{Name: "layout", Details: make(map[string]any)}

		mounted, frames := state()
		check.Details["mounted"] = mounted
		check.Details["frames"] = frames

		switch {
		case !mounted:
			check.Status = StatusUnhealthy
			check.Message = "No layout mounted"
		case frames == 0:
			check.Status = StatusDegraded
			check.Message = "Waiting for first frame"
		default:
			check.Status = StatusHealthy
			check.Message = "Rendering"
		}
		return check
	}
}

// MemoryCheck is degraded when the heap holds more than limit bytes. A zero
// limit always passes.
func MemoryCheck(limit uint64) CheckFunc {
	return func() Check {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		check := Check{
			Name: "memory",
			Details: map[string]any{
				"alloc_bytes": ms.Alloc,
				"sys_bytes":   ms.Sys,
			},
			Status:  StatusHealthy,
			Message: "Memory usage normal",
		}
		if limit > 0 && ms.Alloc > limit {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}
