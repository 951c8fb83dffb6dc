package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInteractionMetrics() {
	r.FocusTransitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netgraph_focus_transitions_total",
			Help: "Committed focus transitions",
		},
		[]string{"channel", "transition"}, // channel: hover, select; transition: enter, leave
	)
}
