package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-netgraph/pkg/config"
	"github.com/dd0wney/cluso-netgraph/pkg/eventloop"
	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
	"github.com/dd0wney/cluso-netgraph/pkg/health"
	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/metrics"
	"github.com/dd0wney/cluso-netgraph/pkg/render"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#00FFFF"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// statusLines is the number of terminal rows below the graph
const statusLines = 3

type keyMap struct {
	Categories key.Binding
	Overlay    key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Categories: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cycle category"),
	),
	Overlay: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "voronoi overlay"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Categories, k.Overlay, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Categories, k.Overlay, k.Quit}}
}

type (
	frameMsg render.Frame
	focusMsg render.FocusEvent
	errMsg   struct{ err error }
)

// host owns the binding. The binding is only touched from tasks posted onto
// the loop; the model talks to it through these methods.
type host struct {
	loop    *eventloop.Loop
	graph   *graph.Graph
	config  *config.Config
	out     outputs
	logger  logging.Logger
	metrics *metrics.Registry
	send    func(tea.Msg)

	binding *render.Binding
	mounted atomic.Bool
	frames  atomic.Uint64
}

func (h *host) layoutState() (bool, uint64) {
	return h.mounted.Load(), h.frames.Load()
}

func (h *host) post(f func()) {
	if !h.loop.Post(f) {
		h.logger.Warn("event loop closed, dropping task")
	}
}

func (h *host) resize(vp geom.Viewport, categories []string) {
	h.post(func() {
		if h.binding == nil {
			h.binding = render.NewBinding(h.graph, vp, h.loop, h.config.Binding(),
				render.WithRenderer(render.RendererFunc(h.render)),
				render.WithListener(h.focus),
				render.WithLogger(h.logger),
				render.WithMetrics(h.metrics),
				render.WithSelectedCategories(categories),
			)
			if err := h.binding.Mount(); err != nil {
				h.send(errMsg{err})
			}
			h.mounted.Store(h.binding.Mounted())
			return
		}
		if _, err := h.binding.Resize(vp); err != nil {
			h.send(errMsg{err})
		}
		h.mounted.Store(h.binding.Mounted())
	})
}

func (h *host) render(f render.Frame) {
	h.frames.Add(1)
	for _, r := range h.out.renderers {
		r.Render(f)
	}
	h.send(frameMsg(f))
}

func (h *host) focus(ev render.FocusEvent) {
	for _, l := range h.out.listeners {
		l(ev)
	}
	h.send(focusMsg(ev))
}

func (h *host) pointerMove(p geom.Point) {
	h.post(func() {
		if h.binding != nil {
			h.binding.PointerMove(p.X, p.Y)
		}
	})
}

func (h *host) pointerLeave() {
	h.post(func() {
		if h.binding != nil {
			h.binding.PointerLeave()
		}
	})
}

func (h *host) click(p geom.Point) {
	h.post(func() {
		if h.binding != nil {
			h.binding.Click(p.X, p.Y)
		}
	})
}

func (h *host) setCategories(categories []string) {
	h.post(func() {
		if h.binding != nil {
			h.binding.SetSelectedCategories(categories)
		}
	})
}

// shutdown unmounts on the loop and waits for it, bounded by timeout
func (h *host) shutdown(timeout time.Duration) {
	done := make(chan struct{})
	if !h.loop.Post(func() {
		if h.binding != nil {
			h.binding.Unmount()
		}
		h.mounted.Store(false)
		close(done)
	}) {
		return
	}
	select {
	case <-done:
	case <-time.After(timeout):
		h.logger.Warn("timed out waiting for unmount")
	}
}

type model struct {
	host       *host
	help       help.Model
	keys       keyMap
	width      int
	height     int
	frame      *render.Frame
	overlay    bool
	categories []string
	category   int // index into categories, -1 for none
	selection  string
	err        error
}

func initialModel(h *host, selected []string) model {
	m := model{
		host:       h,
		help:       help.New(),
		keys:       keys,
		categories: categoryCycle(h.graph),
		category:   -1,
	}
	if len(selected) == 1 {
		for i, c := range m.categories {
			if c == selected[0] {
				m.category = i
			}
		}
	}
	return m
}

// categoryCycle lists each group's first category once, in group order
func categoryCycle(g *graph.Graph) []string {
	var out []string
	seen := make(map[string]bool)
	for i := range g.Groups {
		c := g.Groups[i].PrimaryCategory()
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) graphRows() int {
	return max(m.height-statusLines, 1)
}

func (m model) canvas() *canvas {
	cfg := m.host.config.Render
	return newCanvas(max(m.width, 1), m.graphRows(), cfg.ColumnWidth, cfg.RowHeight)
}

func (m model) selectedCategories() []string {
	if m.category < 0 {
		return nil
	}
	return []string{m.categories[m.category]}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		c := m.canvas()
		vp := geom.Viewport{Width: float64(c.cols) * c.colWidth, Height: float64(c.rows) * c.rowHeight}
		categories := m.host.config.Interaction.SelectedCategories
		if !first {
			categories = nil
		}
		m.host.resize(vp, categories)

	case tea.MouseMsg:
		c := m.canvas()
		if msg.Y >= c.rows {
			m.host.pointerLeave()
			break
		}
		p := c.center(msg.X, msg.Y)
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.host.click(p)
		case msg.Action == tea.MouseActionMotion:
			m.host.pointerMove(p)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Overlay):
			m.overlay = !m.overlay
		case key.Matches(msg, m.keys.Categories):
			if len(m.categories) > 0 {
				m.category++
				if m.category >= len(m.categories) {
					m.category = -1
				}
				m.host.setCategories(m.selectedCategories())
			}
		}

	case frameMsg:
		f := render.Frame(msg)
		m.frame = &f

	case focusMsg:
		if msg.Type == render.EventSelect {
			if msg.Entering {
				m.selection = msg.Key
			} else {
				m.selection = ""
			}
		}

	case errMsg:
		m.err = msg.err
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Starting..."
	}

	var s strings.Builder
	c := m.canvas()
	if m.frame != nil {
		drawFrame(m.frame, c, m.overlay)
	}
	s.WriteString(c.styled())
	s.WriteString("\n")

	filter := "all paths"
	if m.category >= 0 {
		filter = m.categories[m.category]
	}
	status := titleStyle.Render("netviz") + " " + filterStyle.Render(filter)
	if m.selection != "" {
		status += " selected: " + m.selection
	}
	if m.err != nil {
		status += " " + fmt.Sprintf("error: %v", m.err)
	}
	s.WriteString(status)
	s.WriteString("\n")

	if m.frame != nil && m.frame.Description != "" {
		s.WriteString(descriptionStyle.Render(m.frame.Description))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return s.String()
}

// outputs are the extra frame and focus consumers besides the screen
type outputs struct {
	renderers []render.Renderer
	listeners []render.Listener
	logger    logging.Logger
	metrics   *metrics.Registry
	health    *health.Checker
}

func runTUI(g *graph.Graph, cfg *config.Config, out outputs) error {
	logger := out.logger
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := eventloop.NewLoop(logger)
	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Debug("event loop stopped", logging.Error(err))
		}
	}()
	defer loop.Close()

	h := &host{
		loop:    loop,
		graph:   g,
		config:  cfg,
		out:     out,
		logger:  logger,
		metrics: out.metrics,
	}
	out.health.RegisterLivenessCheck("eventloop", health.EventLoopCheck(loop, time.Second))
	out.health.RegisterReadinessCheck("layout", health.LayoutCheck(h.layoutState))

	p := tea.NewProgram(initialModel(h, cfg.Interaction.SelectedCategories), tea.WithAltScreen(), tea.WithMouseAllMotion())
	h.send = p.Send

	_, err := p.Run()
	h.shutdown(time.Second)
	return err
}
