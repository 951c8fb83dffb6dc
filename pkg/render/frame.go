package render

import (
	"github.com/dd0wney/cluso-netgraph/pkg/geom"
)

// NodeFrame is a node's position and look in one frame
type NodeFrame struct {
	Key           string    `json:"id"`
	Title         string    `json:"title"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Leaf          bool      `json:"leaf,omitempty"`
	LabelOffset   float64   `json:"labelOffset"`
	LabelRotation float64   `json:"labelRotation"`
	Style         NodeStyle `json:"style"`
}

// LinkFrame is a link's endpoints and look in one frame
type LinkFrame struct {
	Key    string     `json:"id"`
	Source geom.Point `json:"source"`
	Target geom.Point `json:"target"`
	Style  LinkStyle  `json:"style"`
}

// FocusFrame names the focused element
type FocusFrame struct {
	Key   string `json:"id"`
	Kind  string `json:"kind"`
	Group int    `json:"group"`
}

// Frame is an immutable snapshot of the graph as it should be drawn. It
// shares no memory with the binding and may be handed to other goroutines.
type Frame struct {
	Session     string         `json:"session"`
	Sequence    uint64         `json:"seq"`
	Viewport    geom.Viewport  `json:"viewport"`
	Nodes       []NodeFrame    `json:"nodes"`
	Links       []LinkFrame    `json:"links"`
	Cells       [][]geom.Point `json:"cells,omitempty"`
	Focus       *FocusFrame    `json:"focus,omitempty"`
	Description string         `json:"description"`
}

// Node returns the node frame with the given key
func (f *Frame) Node(key string) (NodeFrame, bool) {
	for _, n := range f.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return NodeFrame{}, false
}

// Renderer draws frames
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(Frame)

func (f RendererFunc) Render(frame Frame) { f(frame) }

// Focus event types
const (
	EventHover  = "hover"
	EventSelect = "select"
)

// FocusEvent reports a committed focus change
type FocusEvent struct {
	Type        string `json:"type"`
	Entering    bool   `json:"entering"`
	Key         string `json:"id,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Group       int    `json:"group,omitempty"`
	Description string `json:"description,omitempty"`
}

// Listener receives focus events
type Listener func(FocusEvent)
