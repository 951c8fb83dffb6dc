// Package partition splits the viewport into Voronoi cells around node
// positions and link midpoints, and resolves pointer positions to the
// element whose cell contains them.
package partition

import (
	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
)

// DefaultNearestThreshold is the distance cap used by Nearest callers that
// have no better value
const DefaultNearestThreshold = 50.0

// Kind tells nodes from link midpoints
type Kind int

const (
	KindNode Kind = iota
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Element is one site of the partition
type Element struct {
	Point geom.Point
	Data  graph.Entity
	Kind  Kind
}

// Node returns the element's node, or nil for link elements
func (e *Element) Node() *graph.Node {
	n, _ := e.Data.(*graph.Node)
	return n
}

// Link returns the element's link, or nil for node elements
func (e *Element) Link() *graph.Link {
	l, _ := e.Data.(*graph.Link)
	return l
}

// PointerEvent is a pointer position in viewport coordinates
type PointerEvent struct {
	X, Y float64
}

// Point returns the event position
func (ev PointerEvent) Point() geom.Point {
	return geom.Point{X: ev.X, Y: ev.Y}
}
