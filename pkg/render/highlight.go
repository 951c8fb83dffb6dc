package render

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-netgraph/pkg/graph"
	"github.com/dd0wney/cluso-netgraph/pkg/partition"
)

// Focus is the element the pointer settled on
type Focus struct {
	Entity graph.Entity
	Kind   partition.Kind
}

// NewFocus builds a focus, deriving the kind from the entity type
func NewFocus(e graph.Entity) *Focus {
	kind := partition.KindLink
	if _, ok := e.(*graph.Node); ok {
		kind = partition.KindNode
	}
	return &Focus{Entity: e, Kind: kind}
}

// Group returns the focused entity's primary group id
func (f *Focus) Group() int { return f.Entity.PrimaryGroup() }

// HighlightedGroups returns the groups lit when nothing is focused: the
// groups whose first category is selected, or every group when none are.
func HighlightedGroups(g *graph.Graph, selected []string) []int {
	var ids []int
	for i := range g.Groups {
		if slices.Contains(selected, g.Groups[i].PrimaryCategory()) {
			ids = append(ids, g.Groups[i].ID)
		}
	}
	if len(ids) == 0 {
		for i := range g.Groups {
			ids = append(ids, g.Groups[i].ID)
		}
	}
	return ids
}

// Highlight computes node and link styles. With a focus, everything outside
// the focused entity's primary group is dimmed and the group's links are
// thickened; a focused node also gets a thicker stroke. Without a focus the
// highlighted groups come from the selected categories.
func Highlight(g *graph.Graph, focus *Focus, selected []string, style StyleConfig) Styles {
	var lit []int
	if focus != nil {
		lit = []int{focus.Group()}
	} else {
		lit = HighlightedGroups(g, selected)
	}
	inLit := func(e graph.Entity) bool {
		for _, id := range lit {
			if e.InGroup(id) {
				return true
			}
		}
		return false
	}

	styles := Styles{
		Nodes: make(map[string]NodeStyle, len(g.Nodes)),
		Links: make(map[string]LinkStyle, len(g.Links)),
	}

	for _, n := range g.Nodes {
		s := NodeStyle{
			Radius:      style.NodeRadius + n.Size,
			Fill:        style.NodeFill,
			StrokeWidth: style.NodeStrokeWidth,
			Stroke:      g.PrimaryGroupOf(n).Color,
			Opacity:     style.DimmedOpacity,
		}
		if inLit(n) {
			s.Opacity = style.Opacity
		}
		if focus != nil && focus.Kind == partition.KindNode && focus.Entity == graph.Entity(n) {
			s.StrokeWidth = style.NodeStrokeWidth * style.WidthMultiplier
		}
		styles.Nodes[n.Key] = s
	}

	for _, l := range g.Links {
		width := l.Width
		if width == 0 {
			width = style.LinkWidth
		}
		s := LinkStyle{
			Stroke:  style.LinkStroke,
			Width:   width,
			Opacity: style.DimmedOpacity,
			Dashed:  l.Dashed,
		}
		if inLit(l) {
			s.Opacity = style.Opacity
			s.Width = width * style.WidthMultiplier
		}
		styles.Links[l.Key] = s
	}

	return styles
}

// Describe returns the path description for a focus, or "" without one
func Describe(g *graph.Graph, focus *Focus) string {
	if focus == nil {
		return ""
	}
	title := ""
	if group, err := g.Group(focus.Group()); err == nil {
		title = group.Title
	}
	if title == "" {
		title = "developer's"
	}
	return fmt.Sprintf("You are looking at the %s developer's path.", title)
}
