package partition

import (
	"math"
	"time"

	"github.com/fogleman/delaunay"

	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/metrics"
)

// Resolve results, used as metric labels
const (
	ResultHit         = "hit"
	ResultEmpty       = "empty"
	ResultStale       = "stale"
	ResultOutOfBounds = "out_of_bounds"
)

// Index is a Voronoi partition over a set of elements. It is rebuilt from
// scratch every simulation tick: Clear, Add, Rebuild, then Resolve until the
// next Clear. It is not safe for concurrent use.
type Index struct {
	bounds   geom.Viewport
	elements []Element

	// Delaunay neighbours per site. Empty in degenerate mode.
	neighbors [][]int
	// Sites the triangulation skipped; always checked exhaustively.
	orphans    []int
	cells      [][]geom.Point
	degenerate bool
	built      bool
	last       int

	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures an Index
type Option func(*Index)

// WithLogger sets the index logger
func WithLogger(l logging.Logger) Option {
	return func(ix *Index) { ix.logger = logging.OrNop(l) }
}

// WithMetrics records rebuilds and resolutions into m
func WithMetrics(m *metrics.Registry) Option {
	return func(ix *Index) { ix.metrics = m }
}

// New creates an empty index covering bounds
func New(bounds geom.Viewport, opts ...Option) *Index {
	ix := &Index{bounds: bounds, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(ix)
	}
	ix.logger = ix.logger.With(logging.Component("partition"))
	return ix
}

// Bounds returns the clipping rectangle
func (ix *Index) Bounds() geom.Viewport { return ix.bounds }

// SetBounds changes the clipping rectangle. The index must be rebuilt.
func (ix *Index) SetBounds(bounds geom.Viewport) {
	ix.bounds = bounds
	ix.built = false
}

// Len returns the number of elements added since the last Clear
func (ix *Index) Len() int { return len(ix.elements) }

// Elements returns the elements added since the last Clear
func (ix *Index) Elements() []Element { return ix.elements }

// Degenerate reports whether the last rebuild fell back to exhaustive lookup
func (ix *Index) Degenerate() bool { return ix.degenerate }

// Clear removes every element. Resolve returns nil until the next Rebuild.
func (ix *Index) Clear() {
	for i := range ix.elements {
		ix.elements[i] = Element{}
	}
	ix.elements = ix.elements[:0]
	ix.neighbors = nil
	ix.orphans = nil
	ix.cells = nil
	ix.degenerate = false
	ix.built = false
	ix.last = 0
}

// Add appends one element per item. Positions come from the accessors.
func Add[T graph.Entity](ix *Index, kind Kind, items []T, getX, getY func(T) float64) {
	for _, item := range items {
		ix.elements = append(ix.elements, Element{
			Point: geom.Point{X: getX(item), Y: getY(item)},
			Data:  item,
			Kind:  kind,
		})
	}
	ix.built = false
}

// AddNodes appends one node element per node
func (ix *Index) AddNodes(nodes []*graph.Node, getX, getY func(*graph.Node) float64) {
	Add(ix, KindNode, nodes, getX, getY)
}

// AddLinks appends one element per link, placed at the midpoint of its
// endpoints
func (ix *Index) AddLinks(links []*graph.Link, getSourceX, getSourceY, getTargetX, getTargetY func(*graph.Link) float64) {
	Add(ix, KindLink, links,
		func(l *graph.Link) float64 { return (getSourceX(l) + getTargetX(l)) / 2 },
		func(l *graph.Link) float64 { return (getSourceY(l) + getTargetY(l)) / 2 },
	)
}

// Rebuild triangulates the current elements and computes their cells.
// Inputs with no triangulation (fewer than three sites, all collinear or
// all coincident) switch the index to exhaustive lookup.
func (ix *Index) Rebuild() {
	start := time.Now()
	ix.neighbors = nil
	ix.orphans = nil
	ix.cells = nil
	ix.degenerate = false
	ix.last = 0

	if len(ix.elements) > 0 {
		ix.triangulate()
		ix.computeCells()
	}
	ix.built = true

	if ix.metrics != nil {
		ix.metrics.RecordRebuild(len(ix.elements), ix.degenerate, time.Since(start))
	}
}

func (ix *Index) triangulate() {
	points := make([]delaunay.Point, len(ix.elements))
	for i, e := range ix.elements {
		if !finite(e.Point.X) || !finite(e.Point.Y) {
			ix.degenerate = true
			ix.logger.Warn("non-finite element position", logging.String("element", e.Data.EntityKey()))
			return
		}
		points[i] = delaunay.Point{X: e.Point.X, Y: e.Point.Y}
	}

	tri, err := delaunay.Triangulate(points)
	if err != nil || len(tri.Triangles) == 0 {
		ix.degenerate = true
		if len(ix.elements) >= 3 {
			ix.logger.Debug("triangulation unavailable, using exhaustive lookup",
				logging.Count(len(ix.elements)))
		}
		return
	}

	ix.neighbors = make([][]int, len(ix.elements))
	for t := 0; t+2 < len(tri.Triangles); t += 3 {
		a, b, c := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
		ix.link(a, b)
		ix.link(b, c)
		ix.link(c, a)
	}
	for i, ns := range ix.neighbors {
		if len(ns) == 0 {
			ix.orphans = append(ix.orphans, i)
		}
	}
	for i := range ix.neighbors {
		if len(ix.neighbors[i]) > 0 {
			ix.last = i
			break
		}
	}
}

func (ix *Index) link(a, b int) {
	if !containsInt(ix.neighbors[a], b) {
		ix.neighbors[a] = append(ix.neighbors[a], b)
	}
	if !containsInt(ix.neighbors[b], a) {
		ix.neighbors[b] = append(ix.neighbors[b], a)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// computeCells clips the bounds rectangle by the bisector of each site and
// its neighbours. Orphan sites and degenerate inputs clip against every site.
func (ix *Index) computeCells() {
	rect := ix.bounds.Rect()
	ix.cells = make([][]geom.Point, len(ix.elements))
	for i, e := range ix.elements {
		cell := append([]geom.Point(nil), rect...)
		if !ix.degenerate && len(ix.neighbors[i]) > 0 {
			for _, j := range ix.neighbors[i] {
				cell = geom.ClipHalfPlane(cell, e.Point, ix.elements[j].Point)
			}
		} else {
			for j, other := range ix.elements {
				if j == i || other.Point == e.Point {
					continue
				}
				cell = geom.ClipHalfPlane(cell, e.Point, other.Point)
			}
		}
		ix.cells[i] = cell
	}
}

// Cell returns the clipped polygon of element i, or nil
func (ix *Index) Cell(i int) []geom.Point {
	if !ix.built || i < 0 || i >= len(ix.cells) {
		return nil
	}
	return ix.cells[i]
}

// Cells returns every clipped polygon, indexed like Elements
func (ix *Index) Cells() [][]geom.Point {
	if !ix.built {
		return nil
	}
	return ix.cells
}

// Resolve returns the element whose cell contains the pointer. It returns
// nil when the index is empty, has not been rebuilt since the last change,
// or the pointer lies outside the bounds.
func (ix *Index) Resolve(ev PointerEvent) *Element {
	i, result := ix.resolve(ev.Point())
	if ix.metrics != nil {
		ix.metrics.RecordResolve(result)
	}
	if i < 0 {
		return nil
	}
	return &ix.elements[i]
}

func (ix *Index) resolve(p geom.Point) (int, string) {
	switch {
	case !ix.built:
		return -1, ResultStale
	case len(ix.elements) == 0:
		return -1, ResultEmpty
	case !ix.bounds.Contains(p):
		return -1, ResultOutOfBounds
	}

	var best int
	if ix.degenerate {
		best = ix.scan(p)
	} else {
		best = ix.walk(p)
		bestDist := geom.SquaredDistance(p, ix.elements[best].Point)
		for _, o := range ix.orphans {
			if d := geom.SquaredDistance(p, ix.elements[o].Point); d < bestDist {
				best, bestDist = o, d
			}
		}
	}
	ix.last = best
	return best, ResultHit
}

// walk moves from the last hit to whichever Delaunay neighbour is closer to
// p until no neighbour is. On a Delaunay triangulation this ends at the
// nearest site.
func (ix *Index) walk(p geom.Point) int {
	cur := ix.last
	if cur < 0 || cur >= len(ix.neighbors) || len(ix.neighbors[cur]) == 0 {
		cur = ix.firstLinked()
	}
	curDist := geom.SquaredDistance(p, ix.elements[cur].Point)
	for {
		next := cur
		for _, n := range ix.neighbors[cur] {
			if d := geom.SquaredDistance(p, ix.elements[n].Point); d < curDist {
				next, curDist = n, d
			}
		}
		if next == cur {
			return cur
		}
		cur = next
	}
}

func (ix *Index) firstLinked() int {
	for i, ns := range ix.neighbors {
		if len(ns) > 0 {
			return i
		}
	}
	return 0
}

func (ix *Index) scan(p geom.Point) int {
	best := 0
	bestDist := geom.SquaredDistance(p, ix.elements[0].Point)
	for i := 1; i < len(ix.elements); i++ {
		if d := geom.SquaredDistance(p, ix.elements[i].Point); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Nearest returns the closest element strictly within maxDistance of (x, y),
// independent of the partition and of staleness, or nil.
func (ix *Index) Nearest(x, y, maxDistance float64) *Element {
	if len(ix.elements) == 0 {
		return nil
	}
	p := geom.Point{X: x, Y: y}
	best := ix.scan(p)
	if geom.Distance(p, ix.elements[best].Point) >= maxDistance {
		return nil
	}
	return &ix.elements[best]
}
