package physics

import (
	"fmt"

	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
)

// ReferenceFraction returns the horizontal anchor used to place n's leaf row.
// It takes the first node in graph order whose key has the same second
// character as n's key, and uses that node's declared fraction. Nodes with
// no such anchor, or with keys shorter than two characters, get 0.5.
//
// The key convention is brittle: it assumes keys like "p1"/"c10" where the
// second character links a leaf to its hub.
func ReferenceFraction(g *graph.Graph, n *graph.Node) float64 {
	if len(n.Key) < 2 {
		return DefaultReferenceFraction
	}
	for _, other := range g.Nodes {
		if len(other.Key) < 2 || other.Key[1] != n.Key[1] {
			continue
		}
		if f, ok := other.DeclaredFraction(); ok {
			return f
		}
		return DefaultReferenceFraction
	}
	return DefaultReferenceFraction
}

// Reposition pins nodes for the settled layout:
//   - leaves share one row, spaced by spacing, anchored by ReferenceFraction
//   - other nodes with a declared fraction are pinned at fraction*width
//   - every node is pinned vertically at its primary group's PY*height
func Reposition(g *graph.Graph, vp geom.Viewport, spacing float64) error {
	leaves := g.Leaves()
	total := float64(len(leaves)-1) * spacing
	for i, leaf := range leaves {
		start := (vp.Width - total) * ReferenceFraction(g, leaf)
		leaf.PinX(start + float64(i)*spacing)
	}

	for _, n := range g.Nodes {
		if n.Role != graph.RoleLeaf {
			if f, ok := n.DeclaredFraction(); ok {
				n.PinX(f * vp.Width)
			}
		}

		group, err := g.Group(n.PrimaryGroup())
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Key, err)
		}
		n.PinY(group.PY * vp.Height)
	}
	return nil
}
