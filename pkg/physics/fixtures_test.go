package physics

import (
	"testing"

	"github.com/dd0wney/cluso-netgraph/pkg/graph"
)

func frac(f float64) *float64 { return &f }

// rowGraph has two rows: p1 anchors the c1x leaves at a quarter of the
// width, p2 anchors c20 at the middle.
func rowGraph(t *testing.T) *graph.Graph {
	t.Helper()
	nodes := []*graph.Node{
		{Key: "p1", Groups: []int{1}, Size: 4, Fraction: frac(0.25)},
		{Key: "c10", Groups: []int{1}, Size: 1, Role: graph.RoleLeaf},
		{Key: "c11", Groups: []int{1}, Size: 1, Role: graph.RoleLeaf},
		{Key: "c12", Groups: []int{1}, Size: 1, Role: graph.RoleLeaf},
		{Key: "p2", Groups: []int{2}, Size: 4, Fraction: frac(0.5)},
		{Key: "c20", Groups: []int{2, 1}, Size: 1, Role: graph.RoleLeaf},
		{Key: "h", Groups: []int{2}, Size: 2},
		{Key: "z9", Groups: []int{1}, Size: 2, Fraction: frac(0)},
	}
	links := []*graph.Link{
		{Key: "l1", SourceKey: "c10", TargetKey: "c11", Groups: []int{1}, Length: 1},
		{Key: "l2", SourceKey: "c11", TargetKey: "c12", Groups: []int{1}, Length: 1},
		{Key: "l3", SourceKey: "c12", TargetKey: "p2", Groups: []int{2}},
		{Key: "l4", SourceKey: "p2", TargetKey: "c20", Groups: []int{2}},
		{Key: "l5", SourceKey: "p1", TargetKey: "h", Groups: []int{1}},
	}
	groups := []graph.Group{
		{PY: 0.25, Color: "#ffd131", Title: "Frontend", Categories: []string{"Frontend"}},
		{PY: 0.75, Color: "#ff9f7a", Title: "Backend", Categories: []string{"Backend"}},
	}
	g, err := graph.New(nodes, links, groups)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}

func pairGraph(t *testing.T, length, size float64) *graph.Graph {
	t.Helper()
	g, err := graph.New(
		[]*graph.Node{
			{Key: "a", Groups: []int{1}, Size: size},
			{Key: "b", Groups: []int{1}, Size: size},
		},
		[]*graph.Link{{Key: "ab", SourceKey: "a", TargetKey: "b", Groups: []int{1}, Length: length}},
		[]graph.Group{{PY: 0.5}},
	)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}
