package graph

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-netgraph/pkg/geom"
)

// NodeRole distinguishes nodes laid out in the shared leaf row from the rest
type NodeRole int

const (
	// RoleHub is the default role; hubs are pinned by their own fraction
	RoleHub NodeRole = iota
	// RoleLeaf nodes are placed in one evenly spaced horizontal row
	RoleLeaf
)

// String returns the payload spelling of a role
func (r NodeRole) String() string {
	switch r {
	case RoleHub:
		return "hub"
	case RoleLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// ParseRole converts a payload string to a NodeRole
func ParseRole(s string) (NodeRole, error) {
	switch s {
	case "", "hub":
		return RoleHub, nil
	case "leaf":
		return RoleLeaf, nil
	default:
		return RoleHub, fmt.Errorf("unknown node role %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (r NodeRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *NodeRole) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Entity is anything the partition and interaction layers can point at.
// Both *Node and *Link implement it.
type Entity interface {
	EntityKey() string
	GroupIDs() []int
	PrimaryGroup() int
	InGroup(id int) bool
}

// Node is a simulated vertex. Position fields are owned by the physics
// engine and mutated in place every tick.
type Node struct {
	Key         string   `json:"id" yaml:"id" validate:"required"`
	Title       string   `json:"title" yaml:"title"`
	Groups      []int    `json:"groups" yaml:"groups" validate:"required,min=1,dive,min=1"`
	Size        float64  `json:"size" yaml:"size" validate:"gte=0"`
	Fraction    *float64 `json:"px,omitempty" yaml:"px,omitempty" validate:"omitempty,gte=0,lte=1"`
	HasChildren bool     `json:"hasChildren,omitempty" yaml:"has_children,omitempty"`
	Role        NodeRole `json:"role,omitempty" yaml:"role,omitempty"`

	// Index is the node's position in Graph.Nodes
	Index int `json:"-" yaml:"-"`

	X  float64  `json:"x" yaml:"-"`
	Y  float64  `json:"y" yaml:"-"`
	VX float64  `json:"-" yaml:"-"`
	VY float64  `json:"-" yaml:"-"`
	FX *float64 `json:"fx,omitempty" yaml:"-"`
	FY *float64 `json:"fy,omitempty" yaml:"-"`
}

func (n *Node) EntityKey() string { return n.Key }
func (n *Node) GroupIDs() []int   { return n.Groups }

// PrimaryGroup returns the first group id, or 0 when the node has none
func (n *Node) PrimaryGroup() int {
	if len(n.Groups) == 0 {
		return 0
	}
	return n.Groups[0]
}

func (n *Node) InGroup(id int) bool { return slices.Contains(n.Groups, id) }

// Position returns the current simulated position
func (n *Node) Position() geom.Point {
	return geom.Point{X: n.X, Y: n.Y}
}

// DeclaredFraction returns the fixed-horizontal-fraction hint. A zero
// fraction counts as undeclared.
func (n *Node) DeclaredFraction() (float64, bool) {
	if n.Fraction == nil || *n.Fraction == 0 {
		return 0, false
	}
	return *n.Fraction, true
}

// PinX fixes the horizontal position
func (n *Node) PinX(x float64) { n.FX = &x }

// PinY fixes the vertical position
func (n *Node) PinY(y float64) { n.FY = &y }

// Unpin releases both axes
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// Link connects two nodes. Source and Target are resolved from the keys when
// the graph is built.
type Link struct {
	Key       string  `json:"id" yaml:"id" validate:"required"`
	SourceKey string  `json:"source" yaml:"source" validate:"required"`
	TargetKey string  `json:"target" yaml:"target" validate:"required"`
	Groups    []int   `json:"groups" yaml:"groups" validate:"required,min=1,dive,min=1"`
	Length    float64 `json:"length,omitempty" yaml:"length,omitempty" validate:"gte=0"`
	Width     float64 `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Dashed    bool    `json:"dashed,omitempty" yaml:"dashed,omitempty"`

	Source *Node `json:"-" yaml:"-"`
	Target *Node `json:"-" yaml:"-"`
}

func (l *Link) EntityKey() string { return l.Key }
func (l *Link) GroupIDs() []int   { return l.Groups }

// PrimaryGroup returns the first group id, or 0 when the link has none
func (l *Link) PrimaryGroup() int {
	if len(l.Groups) == 0 {
		return 0
	}
	return l.Groups[0]
}

func (l *Link) InGroup(id int) bool { return slices.Contains(l.Groups, id) }

// Midpoint returns the current midpoint between the resolved endpoints
func (l *Link) Midpoint() geom.Point {
	return geom.Midpoint(l.Source.Position(), l.Target.Position())
}

// Group is a category row. IDs are 1-based and assigned from position.
type Group struct {
	ID         int      `json:"-" yaml:"-"`
	PY         float64  `json:"py" yaml:"py" validate:"gte=0,lte=1"`
	Color      string   `json:"color" yaml:"color"`
	Title      string   `json:"title" yaml:"title"`
	Categories []string `json:"categories" yaml:"categories"`
}

// PrimaryCategory returns the first category tag, or "" when there is none
func (g *Group) PrimaryCategory() string {
	if len(g.Categories) == 0 {
		return ""
	}
	return g.Categories[0]
}
