package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPartitionMetrics() {
	r.PartitionRebuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netgraph_partition_rebuild_duration_seconds",
			Help:    "Time spent triangulating and clipping cells",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		},
	)

	r.PartitionElements = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netgraph_partition_elements",
			Help: "Number of elements in the last rebuilt partition",
		},
	)

	r.PartitionDegenerateTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_partition_degenerate_total",
			Help: "Rebuilds that fell back to exhaustive lookup",
		},
	)

	r.PartitionResolveTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netgraph_partition_resolve_total",
			Help: "Pointer resolutions by result",
		},
		[]string{"result"}, // hit, empty, stale, out_of_bounds
	)
}
