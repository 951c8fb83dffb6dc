package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.SimulationTicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_simulation_ticks_total",
			Help: "Total number of force simulation ticks",
		},
	)

	r.SimulationTickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netgraph_simulation_tick_duration_seconds",
			Help:    "Time spent applying forces and integrating one tick",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .016},
		},
	)

	r.SimulationAlpha = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netgraph_simulation_alpha",
			Help: "Current simulation energy (alpha)",
		},
	)

	r.LayoutsStartedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_layouts_started_total",
			Help: "Total number of layout runs started",
		},
	)

	r.LayoutsStoppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netgraph_layouts_stopped_total",
			Help: "Total number of layout runs stopped",
		},
		[]string{"phase"}, // before_reposition, after_reposition
	)

	r.RepositionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_repositions_total",
			Help: "Total number of repositioning passes applied",
		},
	)

	r.SimulationSettledTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_simulation_settled_total",
			Help: "Total number of times a simulation cooled below its minimum alpha",
		},
	)
}
