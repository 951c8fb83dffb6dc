// Package metrics exposes Prometheus instruments for the layout core.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Simulation Metrics
	SimulationTicksTotal   prometheus.Counter
	SimulationTickDuration prometheus.Histogram
	SimulationAlpha        prometheus.Gauge
	LayoutsStartedTotal    prometheus.Counter
	LayoutsStoppedTotal    *prometheus.CounterVec
	RepositionsTotal       prometheus.Counter
	SimulationSettledTotal prometheus.Counter

	// Partition Metrics
	PartitionRebuildDuration prometheus.Histogram
	PartitionElements        prometheus.Gauge
	PartitionDegenerateTotal prometheus.Counter
	PartitionResolveTotal    *prometheus.CounterVec

	// Interaction Metrics
	FocusTransitionsTotal *prometheus.CounterVec

	// Render Metrics
	FramesRenderedTotal prometheus.Counter
	RemountsTotal       prometheus.Counter
	ResizesIgnoredTotal prometheus.Counter

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		started:  time.Now(),
	}

	r.initSimulationMetrics()
	r.initPartitionMetrics()
	r.initInteractionMetrics()
	r.initRenderMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
