package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netgraph/pkg/graph"
)

func frac(f float64) *float64 { return &f }

// pathGraph has a frontend row and a backend row. p1 and c1 share the
// frontend group; p2 is backend only.
func pathGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(
		[]*graph.Node{
			{Key: "p1", Title: "Intro", Groups: []int{1}, Size: 4, Fraction: frac(0.25)},
			{Key: "c1", Title: "CSS", Groups: []int{1, 2}, Size: 1, Fraction: frac(0.5)},
			{Key: "p2", Title: "Python", Groups: []int{2}, Size: 5, Fraction: frac(0.75)},
		},
		[]*graph.Link{
			{Key: "l1", SourceKey: "p1", TargetKey: "c1", Groups: []int{1}, Width: 2},
			{Key: "l2", SourceKey: "c1", TargetKey: "p2", Groups: []int{2}, Dashed: true},
		},
		[]graph.Group{
			{PY: 0.25, Color: "#ffd131", Title: "Frontend Web", Categories: []string{"Frontend"}},
			{PY: 0.75, Color: "#ff9f7a", Title: "Backend Python", Categories: []string{"Backend"}},
		},
	)
	require.NoError(t, err)
	return g
}
