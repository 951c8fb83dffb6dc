// Package render binds a graph to the physics engine, the partition index
// and the interaction debouncers, and publishes frames for a renderer.
package render

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-netgraph/pkg/eventloop"
	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
	"github.com/dd0wney/cluso-netgraph/pkg/interaction"
	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/metrics"
	"github.com/dd0wney/cluso-netgraph/pkg/partition"
	"github.com/dd0wney/cluso-netgraph/pkg/physics"
)

// Config configures a Binding
type Config struct {
	Physics          physics.Config
	Style            StyleConfig
	HoverEnterDelay  time.Duration
	HoverLeaveDelay  time.Duration
	SelectEnterDelay time.Duration
	SelectLeaveDelay time.Duration
	ResizeThreshold  float64
	// ResizeTrackHeight makes height changes trigger remounts too
	ResizeTrackHeight bool
	// IncludeCells adds the partition polygons to every frame
	IncludeCells bool
}

// DefaultConfig returns the standard binding setup
func DefaultConfig() Config {
	return Config{
		Physics:          physics.DefaultConfig(),
		Style:            DefaultStyle(),
		HoverEnterDelay:  interaction.HoverEnterDelay,
		HoverLeaveDelay:  interaction.HoverLeaveDelay,
		SelectEnterDelay: interaction.SelectEnterDelay,
		SelectLeaveDelay: interaction.SelectLeaveDelay,
		ResizeThreshold:  DefaultResizeThreshold,
		IncludeCells:     true,
	}
}

// Option configures a Binding
type Option func(*Binding)

// WithRenderer sets the frame consumer
func WithRenderer(r Renderer) Option {
	return func(b *Binding) { b.renderer = r }
}

// WithListener sets the focus event consumer
func WithListener(l Listener) Option {
	return func(b *Binding) { b.listener = l }
}

// WithLogger sets the binding logger
func WithLogger(l logging.Logger) Option {
	return func(b *Binding) { b.logger = logging.OrNop(l) }
}

// WithMetrics records frames, focus changes and remounts into m
func WithMetrics(m *metrics.Registry) Option {
	return func(b *Binding) { b.metrics = m }
}

// WithSelectedCategories sets the initial category filter
func WithSelectedCategories(categories []string) Option {
	return func(b *Binding) { b.selected = append([]string(nil), categories...) }
}

// Binding owns one mounted graph. Every method, and every callback it
// schedules, must run on the scheduler's thread of control.
type Binding struct {
	config   Config
	graph    *graph.Graph
	viewport geom.Viewport
	sched    eventloop.Scheduler

	engine *physics.Engine
	index  *partition.Index
	hover  *interaction.Debouncer[graph.Entity]
	sel    *interaction.Debouncer[graph.Entity]
	resize *ResizeFilter
	stop   physics.StopFunc

	selected    []string
	focus       *Focus
	selection   *Focus
	hovered     graph.Entity
	styles      Styles
	description string
	sequence    uint64
	mounted     bool

	session  string
	renderer Renderer
	listener Listener
	logger   logging.Logger
	metrics  *metrics.Registry
}

// NewBinding prepares a binding for a copy of g. Nothing runs until Mount.
func NewBinding(g *graph.Graph, vp geom.Viewport, sched eventloop.Scheduler, config Config, opts ...Option) *Binding {
	b := &Binding{
		config:   config,
		graph:    g.Clone(),
		viewport: vp,
		sched:    sched,
		session:  uuid.NewString(),
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(logging.Component("render"), logging.Session(b.session))

	b.engine = physics.NewEngine(sched, config.Physics,
		physics.WithLogger(b.logger),
		physics.WithMetrics(b.metrics),
	)
	b.index = partition.New(vp,
		partition.WithLogger(b.logger),
		partition.WithMetrics(b.metrics),
	)
	b.hover = interaction.New[graph.Entity](sched, config.HoverEnterDelay, config.HoverLeaveDelay)
	b.sel = interaction.New[graph.Entity](sched, config.SelectEnterDelay, config.SelectLeaveDelay)
	b.resize = NewResizeFilter(vp, config.ResizeThreshold, config.ResizeTrackHeight)
	return b
}

// Session returns the binding's session id
func (b *Binding) Session() string { return b.session }

// Graph returns the binding's own copy of the graph
func (b *Binding) Graph() *graph.Graph { return b.graph }

// Viewport returns the current viewport
func (b *Binding) Viewport() geom.Viewport { return b.viewport }

// Index returns the partition index rebuilt every tick
func (b *Binding) Index() *partition.Index { return b.index }

// Focus returns the committed hover focus, or nil
func (b *Binding) Focus() *Focus { return b.focus }

// Selection returns the committed selection, or nil
func (b *Binding) Selection() *Focus { return b.selection }

// Styles returns the current styles
func (b *Binding) Styles() Styles { return b.styles }

// Description returns the current path description
func (b *Binding) Description() string { return b.description }

// Mounted reports whether a layout is running or settled
func (b *Binding) Mounted() bool { return b.mounted }

// Mount applies the default highlight and starts the layout
func (b *Binding) Mount() error {
	if b.mounted {
		return nil
	}
	timer := logging.StartTimer(b.logger, "mount", logging.Viewport(b.viewport.Width, b.viewport.Height))

	b.index.SetBounds(b.viewport)
	b.applyDefaultHighlight()

	stop, err := b.engine.Start(b.graph, b.viewport, b.tick)
	if err != nil {
		timer.EndError(err)
		return err
	}
	b.stop = stop
	b.mounted = true
	timer.End()
	return nil
}

// Unmount stops the layout and cancels every pending interaction timer
func (b *Binding) Unmount() {
	if !b.mounted {
		return
	}
	b.stop()
	b.stop = nil
	b.hover.Cleanup()
	b.sel.Cleanup()
	b.index.Clear()
	b.focus = nil
	b.selection = nil
	b.hovered = nil
	b.mounted = false
	b.logger.Debug("unmounted")
}

// tick runs after every simulation step: rebuild the partition from the
// new positions, then publish a frame
func (b *Binding) tick() {
	b.index.Clear()
	b.index.AddNodes(b.graph.Nodes, nodeX, nodeY)
	b.index.AddLinks(b.graph.Links, sourceX, sourceY, targetX, targetY)
	b.index.Rebuild()
	b.publish()
}

func nodeX(n *graph.Node) float64   { return n.X }
func nodeY(n *graph.Node) float64   { return n.Y }
func sourceX(l *graph.Link) float64 { return l.Source.X }
func sourceY(l *graph.Link) float64 { return l.Source.Y }
func targetX(l *graph.Link) float64 { return l.Target.X }
func targetY(l *graph.Link) float64 { return l.Target.Y }

// PointerMove routes a pointer position. Crossing into another cell leaves
// the old one and enters the new one; leaving every cell counts as a pointer
// leave.
func (b *Binding) PointerMove(x, y float64) {
	if !b.mounted {
		return
	}
	el := b.index.Resolve(partition.PointerEvent{X: x, Y: y})
	if el == nil {
		if b.hovered != nil {
			b.PointerLeave()
		}
		return
	}
	if b.hovered == el.Data {
		return
	}
	if b.hovered != nil {
		b.hover.OnLeave(b.hoverLeft)
	}
	b.hovered = el.Data
	b.hover.OnEnter(el.Data, el.Kind.String(), b.hoverEntered, map[string]any{"x": x, "y": y})
}

// PointerLeave handles the pointer leaving the drawing area
func (b *Binding) PointerLeave() {
	if !b.mounted {
		return
	}
	b.hovered = nil
	b.hover.OnLeave(b.hoverLeft)
}

// Click selects the element under the pointer, or clears the selection
// when there is none
func (b *Binding) Click(x, y float64) {
	if !b.mounted {
		return
	}
	el := b.index.Resolve(partition.PointerEvent{X: x, Y: y})
	if el == nil {
		b.sel.OnLeave(b.selectLeft)
		return
	}
	b.sel.OnEnter(el.Data, EventSelect, b.selectEntered, map[string]any{"x": x, "y": y})
}

// Resize remounts the layout when the viewport has changed enough. It
// reports whether a remount happened.
func (b *Binding) Resize(vp geom.Viewport) (bool, error) {
	next, ok := b.resize.Accept(vp)
	if !ok {
		if b.metrics != nil {
			b.metrics.ResizesIgnoredTotal.Inc()
		}
		return false, nil
	}

	wasMounted := b.mounted
	b.Unmount()
	b.viewport = next
	if b.metrics != nil {
		b.metrics.RemountsTotal.Inc()
	}
	b.logger.Info("viewport resized", logging.Viewport(next.Width, next.Height))
	if !wasMounted {
		return true, nil
	}
	return true, b.Mount()
}

// SetSelectedCategories changes the category filter. The default highlight
// is re-applied unless something is focused.
func (b *Binding) SetSelectedCategories(categories []string) {
	b.selected = append([]string(nil), categories...)
	if b.focus == nil && b.mounted {
		b.applyDefaultHighlight()
		b.publish()
	}
}

// SelectedCategories returns the category filter
func (b *Binding) SelectedCategories() []string {
	return append([]string(nil), b.selected...)
}

func (b *Binding) applyDefaultHighlight() {
	b.styles = Highlight(b.graph, nil, b.selected, b.config.Style)
	b.description = ""
}

func (b *Binding) hoverEntered(subject graph.Entity, kind string, _ map[string]any) {
	b.focus = NewFocus(subject)
	b.styles = Highlight(b.graph, b.focus, b.selected, b.config.Style)
	b.description = Describe(b.graph, b.focus)
	b.logger.Debug("focus", logging.NodeKey(subject.EntityKey()), logging.Kind(kind))
	b.recordFocus(EventHover, "enter")
	b.emit(EventHover, true, b.focus)
	b.publish()
}

func (b *Binding) hoverLeft(previous *interaction.State[graph.Entity]) {
	b.focus = nil
	b.applyDefaultHighlight()
	if previous != nil {
		b.recordFocus(EventHover, "leave")
		b.emit(EventHover, false, NewFocus(previous.Subject))
	}
	b.publish()
}

func (b *Binding) selectEntered(subject graph.Entity, _ string, _ map[string]any) {
	b.selection = NewFocus(subject)
	b.logger.Info("selected", logging.NodeKey(subject.EntityKey()))
	b.recordFocus(EventSelect, "enter")
	b.emit(EventSelect, true, b.selection)
}

func (b *Binding) selectLeft(previous *interaction.State[graph.Entity]) {
	b.selection = nil
	if previous != nil {
		b.recordFocus(EventSelect, "leave")
		b.emit(EventSelect, false, NewFocus(previous.Subject))
	}
}

func (b *Binding) recordFocus(channel, transition string) {
	if b.metrics != nil {
		b.metrics.RecordFocus(channel, transition)
	}
}

func (b *Binding) emit(eventType string, entering bool, f *Focus) {
	if b.listener == nil {
		return
	}
	ev := FocusEvent{
		Type:     eventType,
		Entering: entering,
		Key:      f.Entity.EntityKey(),
		Kind:     f.Kind.String(),
		Group:    f.Group(),
	}
	if entering {
		ev.Description = Describe(b.graph, f)
	}
	b.listener(ev)
}

// Snapshot builds the current frame without publishing it
func (b *Binding) Snapshot() Frame {
	frame := Frame{
		Session:     b.session,
		Sequence:    b.sequence,
		Viewport:    b.viewport,
		Nodes:       make([]NodeFrame, len(b.graph.Nodes)),
		Links:       make([]LinkFrame, len(b.graph.Links)),
		Description: b.description,
	}
	for i, n := range b.graph.Nodes {
		nf := NodeFrame{
			Key:         n.Key,
			Title:       n.Title,
			X:           n.X,
			Y:           n.Y,
			Leaf:        n.Role == graph.RoleLeaf,
			LabelOffset: b.config.Style.LabelOffset - n.Size*2,
			Style:       b.styles.Nodes[n.Key],
		}
		if nf.Leaf {
			nf.LabelRotation = b.config.Style.LabelRotation
		}
		frame.Nodes[i] = nf
	}
	for i, l := range b.graph.Links {
		frame.Links[i] = LinkFrame{
			Key:    l.Key,
			Source: l.Source.Position(),
			Target: l.Target.Position(),
			Style:  b.styles.Links[l.Key],
		}
	}
	if b.config.IncludeCells {
		cells := b.index.Cells()
		frame.Cells = make([][]geom.Point, len(cells))
		for i, c := range cells {
			frame.Cells[i] = append([]geom.Point(nil), c...)
		}
	}
	if b.focus != nil {
		frame.Focus = &FocusFrame{
			Key:   b.focus.Entity.EntityKey(),
			Kind:  b.focus.Kind.String(),
			Group: b.focus.Group(),
		}
	}
	return frame
}

func (b *Binding) publish() {
	b.sequence++
	if b.renderer == nil {
		return
	}
	b.renderer.Render(b.Snapshot())
	if b.metrics != nil {
		b.metrics.FramesRenderedTotal.Inc()
	}
}
