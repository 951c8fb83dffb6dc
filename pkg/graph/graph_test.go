package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fraction(f float64) *float64 { return &f }

func testGroups() []Group {
	return []Group{
		{PY: 0.5, Color: "#999", Title: "Programming", Categories: []string{"Programming"}},
		{PY: 0.25, Color: "#ffd131", Title: "Frontend", Categories: []string{"Frontend"}},
	}
}

func TestNewResolvesEndpoints(t *testing.T) {
	nodes := []*Node{
		{Key: "p1", Groups: []int{1}, Size: 4, Fraction: fraction(0.25)},
		{Key: "c10", Groups: []int{1, 2}, Size: 1, Role: RoleLeaf},
	}
	links := []*Link{{Key: "l1", SourceKey: "p1", TargetKey: "c10", Groups: []int{2}}}

	g, err := New(nodes, links, testGroups())
	require.NoError(t, err)

	assert.Same(t, nodes[0], g.Links[0].Source)
	assert.Same(t, nodes[1], g.Links[0].Target)
	assert.Equal(t, 1, nodes[1].Index)
	assert.Equal(t, 1, g.Groups[0].ID)
	assert.Equal(t, 2, g.Groups[1].ID)

	n, ok := g.NodeByKey("c10")
	require.True(t, ok)
	assert.Same(t, nodes[1], n)

	assert.Equal(t, []*Node{nodes[1]}, g.Leaves())
	assert.Equal(t, "Frontend", g.PrimaryGroupOf(g.Links[0]).Title)
}

func TestNewConstructionErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []*Node
		links []*Link
		want  error
	}{
		{
			name:  "unknown target",
			nodes: []*Node{{Key: "a", Groups: []int{1}}},
			links: []*Link{{Key: "l", SourceKey: "a", TargetKey: "missing", Groups: []int{1}}},
			want:  ErrUnknownEndpoint,
		},
		{
			name:  "unknown source",
			nodes: []*Node{{Key: "a", Groups: []int{1}}},
			links: []*Link{{Key: "l", SourceKey: "missing", TargetKey: "a", Groups: []int{1}}},
			want:  ErrUnknownEndpoint,
		},
		{
			name:  "node without primary group",
			nodes: []*Node{{Key: "a"}},
			want:  ErrMissingPrimaryGroup,
		},
		{
			name:  "group index zero is reserved",
			nodes: []*Node{{Key: "a", Groups: []int{0}}},
			want:  ErrGroupOutOfRange,
		},
		{
			name:  "group past the end",
			nodes: []*Node{{Key: "a", Groups: []int{3}}},
			want:  ErrGroupOutOfRange,
		},
		{
			name:  "link group out of range",
			nodes: []*Node{{Key: "a", Groups: []int{1}}, {Key: "b", Groups: []int{1}}},
			links: []*Link{{Key: "l", SourceKey: "a", TargetKey: "b", Groups: []int{7}}},
			want:  ErrGroupOutOfRange,
		},
		{
			name:  "duplicate node",
			nodes: []*Node{{Key: "a", Groups: []int{1}}, {Key: "a", Groups: []int{1}}},
			want:  ErrDuplicateKey,
		},
		{
			name:  "empty key",
			nodes: []*Node{{Groups: []int{1}}},
			want:  ErrEmptyKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.nodes, tt.links, testGroups())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGroupLookupIsOneBased(t *testing.T) {
	g, err := New(nil, nil, testGroups())
	require.NoError(t, err)

	grp, err := g.Group(2)
	require.NoError(t, err)
	assert.Equal(t, "Frontend", grp.Title)

	_, err = g.Group(0)
	assert.ErrorIs(t, err, ErrGroupOutOfRange)
}

func TestDeclaredFraction(t *testing.T) {
	_, ok := (&Node{}).DeclaredFraction()
	assert.False(t, ok)

	_, ok = (&Node{Fraction: fraction(0)}).DeclaredFraction()
	assert.False(t, ok, "zero fraction counts as undeclared")

	f, ok := (&Node{Fraction: fraction(0.75)}).DeclaredFraction()
	assert.True(t, ok)
	assert.Equal(t, 0.75, f)
}

func TestCloneIsIndependent(t *testing.T) {
	nodes := []*Node{
		{Key: "a", Groups: []int{1}, Fraction: fraction(0.5)},
		{Key: "b", Groups: []int{2}},
	}
	links := []*Link{{Key: "l", SourceKey: "a", TargetKey: "b", Groups: []int{1}, Length: 1}}
	g, err := New(nodes, links, testGroups())
	require.NoError(t, err)

	nodes[0].X = 42
	nodes[0].PinY(10)

	c := g.Clone()
	require.Len(t, c.Nodes, 2)
	assert.NotSame(t, g.Nodes[0], c.Nodes[0])
	assert.Zero(t, c.Nodes[0].X)
	assert.Nil(t, c.Nodes[0].FY)
	assert.Same(t, c.Nodes[0], c.Links[0].Source)

	*c.Nodes[0].Fraction = 0.9
	assert.Equal(t, 0.5, *g.Nodes[0].Fraction)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("leaf")
	require.NoError(t, err)
	assert.Equal(t, RoleLeaf, role)

	role, err = ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleHub, role)

	_, err = ParseRole("branch")
	assert.Error(t, err)
}
