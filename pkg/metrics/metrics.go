package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordTick records one simulation tick
func (r *Registry) RecordTick(alpha float64, duration time.Duration) {
	r.SimulationTicksTotal.Inc()
	r.SimulationTickDuration.Observe(duration.Seconds())
	r.SimulationAlpha.Set(alpha)
}

// RecordLayoutStopped records a stopped layout run
func (r *Registry) RecordLayoutStopped(repositioned bool) {
	phase := "before_reposition"
	if repositioned {
		phase = "after_reposition"
	}
	r.LayoutsStoppedTotal.WithLabelValues(phase).Inc()
}

// RecordRebuild records a partition rebuild
func (r *Registry) RecordRebuild(elements int, degenerate bool, duration time.Duration) {
	r.PartitionRebuildDuration.Observe(duration.Seconds())
	r.PartitionElements.Set(float64(elements))
	if degenerate {
		r.PartitionDegenerateTotal.Inc()
	}
}

// RecordResolve records a pointer resolution result
func (r *Registry) RecordResolve(result string) {
	r.PartitionResolveTotal.WithLabelValues(result).Inc()
}

// RecordFocus records a committed focus transition
func (r *Registry) RecordFocus(channel, transition string) {
	r.FocusTransitionsTotal.WithLabelValues(channel, transition).Inc()
}

// UpdateSystemMetrics refreshes uptime and Go runtime gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.UptimeSeconds.Set(time.Since(r.started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// Handler serves the registry in the Prometheus text format, refreshing the
// system gauges on every scrape
func (r *Registry) Handler() http.Handler {
	inner := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.UpdateSystemMetrics()
		inner.ServeHTTP(w, req)
	})
}
