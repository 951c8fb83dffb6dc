// Package physics runs the force-directed layout: a link, center and
// collision simulation cooled over a few seconds, followed by a one-shot
// repositioning pass that pins nodes into category rows.
package physics

import (
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-netgraph/pkg/eventloop"
	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/graph"
	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/metrics"
	"github.com/dd0wney/cluso-netgraph/pkg/validation"
)

// Defaults
const (
	DefaultFrameInterval         = 16 * time.Millisecond
	DefaultRepositionDelay       = 800 * time.Millisecond
	DefaultGroupedSpacing        = 32.0
	DefaultCollisionRadiusOffset = 1.0
	DefaultLinkLength            = 100.0
	DefaultVelocityDecay         = 0.99
	DefaultRestartAlpha          = 0.001
	DefaultAlphaMin              = 0.001
	DefaultReferenceFraction     = 0.5
)

var (
	// ErrInvalidViewport is returned when a viewport dimension is not positive
	ErrInvalidViewport = errors.New("viewport must have positive width and height")
	// ErrNilGraph is returned when Start is called without a graph
	ErrNilGraph = errors.New("graph is nil")
)

// Config configures an Engine.
type Config struct {
	FrameInterval         time.Duration `yaml:"frame_interval"`
	RepositionDelay       time.Duration `yaml:"reposition_delay"`
	GroupedSpacing        float64       `yaml:"grouped_spacing"`
	CollisionRadiusOffset float64       `yaml:"collision_radius_offset"`
	DefaultLinkLength     float64       `yaml:"default_link_length"`
	VelocityDecay         float64       `yaml:"velocity_decay"`
	RestartAlpha          float64       `yaml:"restart_alpha"`
	AlphaMin              float64       `yaml:"alpha_min"`
	Seed                  int64         `yaml:"seed"`
}

// DefaultConfig returns the standard layout parameters
func DefaultConfig() Config {
	return Config{
		FrameInterval:         DefaultFrameInterval,
		RepositionDelay:       DefaultRepositionDelay,
		GroupedSpacing:        DefaultGroupedSpacing,
		CollisionRadiusOffset: DefaultCollisionRadiusOffset,
		DefaultLinkLength:     DefaultLinkLength,
		VelocityDecay:         DefaultVelocityDecay,
		RestartAlpha:          DefaultRestartAlpha,
		AlphaMin:              DefaultAlphaMin,
		Seed:                  1,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	return validation.NewConfigValidator("physics").
		MinDuration("FrameInterval", c.FrameInterval, time.Millisecond).
		NonNegativeDuration("RepositionDelay", c.RepositionDelay).
		NonNegativeFloat("GroupedSpacing", c.GroupedSpacing).
		NonNegativeFloat("CollisionRadiusOffset", c.CollisionRadiusOffset).
		PositiveFloat("DefaultLinkLength", c.DefaultLinkLength).
		RangeFloat("VelocityDecay", c.VelocityDecay, 0, 1).
		RangeFloat("RestartAlpha", c.RestartAlpha, 0, 1).
		RangeFloat("AlphaMin", c.AlphaMin, 1e-9, 1).
		Validate()
}

// StopFunc halts a layout run. It is idempotent.
type StopFunc func()

// Engine starts layout runs on a scheduler
type Engine struct {
	sched   eventloop.Scheduler
	config  Config
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithMetrics records ticks and repositions into m
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine. Every timer it arms goes through sched.
func NewEngine(sched eventloop.Scheduler, config Config, opts ...Option) *Engine {
	e := &Engine{
		sched:  sched,
		config: config,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logging.Component("physics"))
	return e
}

// Config returns the engine configuration
func (e *Engine) Config() Config { return e.config }

// Start places every node at the viewport center and begins ticking. onTick
// runs after every tick on the scheduler's thread. After RepositionDelay the
// nodes are pinned into their rows and the simulation is gently reheated.
func (e *Engine) Start(g *graph.Graph, vp geom.Viewport, onTick func()) (StopFunc, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if !vp.Valid() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidViewport, vp)
	}

	sim := NewLayout(g, vp, e.config)

	r := &run{
		engine:   e,
		graph:    g,
		viewport: vp,
		sim:      sim,
		onTick:   onTick,
		logger:   e.logger.With(logging.Viewport(vp.Width, vp.Height)),
	}
	r.frame = e.sched.AfterFunc(e.config.FrameInterval, r.tick)
	r.reposition = e.sched.AfterFunc(e.config.RepositionDelay, r.repositionPass)

	if e.metrics != nil {
		e.metrics.LayoutsStartedTotal.Inc()
	}
	r.logger.Info("layout started", logging.Count(len(g.Nodes)))
	return r.stop, nil
}

// NewLayout places every node at the viewport center with no velocity and no
// pins, and returns a simulation with the link, center and collision forces
// registered in that order.
func NewLayout(g *graph.Graph, vp geom.Viewport, config Config) *Simulation {
	center := vp.Center()
	for _, n := range g.Nodes {
		n.X, n.Y = center.X, center.Y
		n.VX, n.VY = 0, 0
		n.Unpin()
	}

	sim := NewSimulation(g.Nodes, SimulationConfig{
		AlphaMin:      config.AlphaMin,
		VelocityDecay: config.VelocityDecay,
		Seed:          config.Seed,
	})
	sim.AddForce("link", NewLinkForce(g.Links, config.DefaultLinkLength))
	sim.AddForce("center", NewCenterForce(center.X, center.Y))
	sim.AddForce("collision", NewCollideForce(config.CollisionRadiusOffset))
	return sim
}

// run is one layout from Start to stop. All methods run on the scheduler's
// thread, so no locking is needed.
type run struct {
	engine   *Engine
	graph    *graph.Graph
	viewport geom.Viewport
	sim      *Simulation
	onTick   func()
	logger   logging.Logger

	frame        eventloop.Timer
	reposition   eventloop.Timer
	repositioned bool
	stopped      bool
}

func (r *run) tick() {
	if r.stopped {
		return
	}
	r.frame = nil

	start := time.Now()
	r.sim.Tick()
	if m := r.engine.metrics; m != nil {
		m.RecordTick(r.sim.Alpha(), time.Since(start))
	}

	if r.onTick != nil {
		r.onTick()
	}
	if r.stopped {
		// onTick may stop the run
		return
	}

	if r.sim.Settled() {
		if m := r.engine.metrics; m != nil {
			m.SimulationSettledTotal.Inc()
		}
		r.logger.Debug("simulation settled", logging.Alpha(r.sim.Alpha()))
		return
	}
	r.frame = r.engine.sched.AfterFunc(r.engine.config.FrameInterval, r.tick)
}

func (r *run) repositionPass() {
	if r.stopped {
		return
	}
	r.reposition = nil

	if err := Reposition(r.graph, r.viewport, r.engine.config.GroupedSpacing); err != nil {
		r.logger.Error("reposition failed", logging.Error(err))
		return
	}
	r.repositioned = true
	r.sim.Restart(r.engine.config.RestartAlpha)
	if m := r.engine.metrics; m != nil {
		m.RepositionsTotal.Inc()
	}
	r.logger.Debug("nodes repositioned", logging.Count(len(r.graph.Nodes)))

	if r.frame == nil {
		r.frame = r.engine.sched.AfterFunc(r.engine.config.FrameInterval, r.tick)
	}
}

func (r *run) stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	if r.frame != nil {
		r.frame.Stop()
		r.frame = nil
	}
	if r.reposition != nil {
		r.reposition.Stop()
		r.reposition = nil
	}
	if m := r.engine.metrics; m != nil {
		m.RecordLayoutStopped(r.repositioned)
	}
	r.logger.Debug("layout stopped", logging.Bool("repositioned", r.repositioned))
}
