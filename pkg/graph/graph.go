// Package graph defines the node, link and group records consumed by the
// layout core, and builds validated graphs from them.
package graph

import (
	"fmt"
)

// Graph is a validated set of nodes, links and groups. Link endpoints are
// resolved to node pointers and every group reference is in range.
type Graph struct {
	Nodes  []*Node
	Links  []*Link
	Groups []Group

	byKey map[string]*Node
}

// New validates the records and resolves link endpoints. Group references
// are 1-based: a reference to g means Groups[g-1].
func New(nodes []*Node, links []*Link, groups []Group) (*Graph, error) {
	g := &Graph{
		Nodes:  nodes,
		Links:  links,
		Groups: groups,
		byKey:  make(map[string]*Node, len(nodes)),
	}

	for i := range g.Groups {
		g.Groups[i].ID = i + 1
	}

	for i, n := range nodes {
		if n == nil || n.Key == "" {
			return nil, fmt.Errorf("node at index %d: %w", i, ErrEmptyKey)
		}
		if _, exists := g.byKey[n.Key]; exists {
			return nil, fmt.Errorf("node %q: %w", n.Key, ErrDuplicateKey)
		}
		if err := g.checkGroups(n.Groups); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Key, err)
		}
		n.Index = i
		g.byKey[n.Key] = n
	}

	linkKeys := make(map[string]struct{}, len(links))
	for i, l := range links {
		if l == nil || l.Key == "" {
			return nil, fmt.Errorf("link at index %d: %w", i, ErrEmptyKey)
		}
		if _, exists := linkKeys[l.Key]; exists {
			return nil, fmt.Errorf("link %q: %w", l.Key, ErrDuplicateKey)
		}
		linkKeys[l.Key] = struct{}{}

		source, ok := g.byKey[l.SourceKey]
		if !ok {
			return nil, fmt.Errorf("link %q source %q: %w", l.Key, l.SourceKey, ErrUnknownEndpoint)
		}
		target, ok := g.byKey[l.TargetKey]
		if !ok {
			return nil, fmt.Errorf("link %q target %q: %w", l.Key, l.TargetKey, ErrUnknownEndpoint)
		}
		if err := g.checkGroups(l.Groups); err != nil {
			return nil, fmt.Errorf("link %q: %w", l.Key, err)
		}
		l.Source = source
		l.Target = target
	}

	return g, nil
}

func (g *Graph) checkGroups(ids []int) error {
	if len(ids) == 0 {
		return ErrMissingPrimaryGroup
	}
	for _, id := range ids {
		if id < 1 || id > len(g.Groups) {
			return fmt.Errorf("group %d of %d: %w", id, len(g.Groups), ErrGroupOutOfRange)
		}
	}
	return nil
}

// NodeByKey looks up a node by key
func (g *Graph) NodeByKey(key string) (*Node, bool) {
	n, ok := g.byKey[key]
	return n, ok
}

// Group returns the group with the given 1-based id
func (g *Graph) Group(id int) (*Group, error) {
	if id < 1 || id > len(g.Groups) {
		return nil, fmt.Errorf("group %d of %d: %w", id, len(g.Groups), ErrGroupOutOfRange)
	}
	return &g.Groups[id-1], nil
}

// PrimaryGroupOf returns the group an entity is placed and coloured by.
// Entities of a built graph always have one.
func (g *Graph) PrimaryGroupOf(e Entity) *Group {
	return &g.Groups[e.PrimaryGroup()-1]
}

// Leaves returns the leaf-role nodes in graph order
func (g *Graph) Leaves() []*Node {
	leaves := make([]*Node, 0)
	for _, n := range g.Nodes {
		if n.Role == RoleLeaf {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Clone deep-copies the records and rebuilds the graph. Simulation state is
// not carried over.
func (g *Graph) Clone() *Graph {
	nodes := make([]*Node, len(g.Nodes))
	for i, n := range g.Nodes {
		c := &Node{
			Key:         n.Key,
			Title:       n.Title,
			Groups:      append([]int(nil), n.Groups...),
			Size:        n.Size,
			HasChildren: n.HasChildren,
			Role:        n.Role,
		}
		if n.Fraction != nil {
			f := *n.Fraction
			c.Fraction = &f
		}
		nodes[i] = c
	}

	links := make([]*Link, len(g.Links))
	for i, l := range g.Links {
		links[i] = &Link{
			Key:       l.Key,
			SourceKey: l.SourceKey,
			TargetKey: l.TargetKey,
			Groups:    append([]int(nil), l.Groups...),
			Length:    l.Length,
			Width:     l.Width,
			Dashed:    l.Dashed,
		}
	}

	groups := make([]Group, len(g.Groups))
	for i, grp := range g.Groups {
		grp.Categories = append([]string(nil), grp.Categories...)
		groups[i] = grp
	}

	// The source graph was valid, so the copy is too.
	clone, err := New(nodes, links, groups)
	if err != nil {
		panic(fmt.Sprintf("graph: clone of valid graph failed: %v", err))
	}
	return clone
}
