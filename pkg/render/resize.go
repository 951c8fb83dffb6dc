package render

import (
	"math"

	"github.com/dd0wney/cluso-netgraph/pkg/geom"
)

// DefaultResizeThreshold is the rounded-width change a resize must exceed
// before the layout is rebuilt
const DefaultResizeThreshold = 1.0

// ResizeFilter drops resize notifications too small to be worth a remount.
// Widths are rounded to whole units and only a change greater than
// Threshold passes. Heights are tracked the same way when TrackHeight is set;
// otherwise they ride along with accepted widths.
type ResizeFilter struct {
	Threshold   float64
	TrackHeight bool

	last geom.Viewport
}

// NewResizeFilter creates a filter that starts from the given viewport
func NewResizeFilter(initial geom.Viewport, threshold float64, trackHeight bool) *ResizeFilter {
	return &ResizeFilter{
		Threshold:   threshold,
		TrackHeight: trackHeight,
		last:        round(initial),
	}
}

// Last returns the last accepted viewport
func (f *ResizeFilter) Last() geom.Viewport { return f.last }

// Accept reports whether vp differs enough from the last accepted viewport,
// and returns the rounded viewport to lay out against
func (f *ResizeFilter) Accept(vp geom.Viewport) (geom.Viewport, bool) {
	r := round(vp)
	changed := math.Abs(r.Width-f.last.Width) > f.Threshold
	if f.TrackHeight && math.Abs(r.Height-f.last.Height) > f.Threshold {
		changed = true
	}
	if !changed {
		return f.last, false
	}
	f.last = r
	return r, true
}

func round(vp geom.Viewport) geom.Viewport {
	return geom.Viewport{Width: math.Round(vp.Width), Height: math.Round(vp.Height)}
}
