package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRenderMetrics() {
	r.FramesRenderedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_frames_rendered_total",
			Help: "Frames handed to the renderer",
		},
	)

	r.RemountsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_remounts_total",
			Help: "Layout remounts triggered by viewport resizes",
		},
	)

	r.ResizesIgnoredTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "netgraph_resizes_ignored_total",
			Help: "Resize notifications below the remount threshold",
		},
	)
}
