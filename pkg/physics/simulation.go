package physics

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-netgraph/pkg/graph"
)

// SimulationConfig holds the cooling and damping parameters of a simulation.
type SimulationConfig struct {
	// AlphaMin is the energy below which the simulation counts as settled
	AlphaMin float64
	// AlphaDecay is the fraction of the remaining energy lost each tick.
	// Zero derives it from AlphaMin so cooling takes about 300 ticks.
	AlphaDecay float64
	// VelocityDecay is the fraction of velocity removed after each move
	VelocityDecay float64
	// Seed drives the jiggle applied to coincident nodes
	Seed int64
}

type namedForce struct {
	name  string
	force Force
}

// Simulation is a synchronous force simulation over a fixed set of nodes.
// It is not safe for concurrent use; the Engine drives it from one thread.
type Simulation struct {
	nodes  []*graph.Node
	forces []namedForce
	rng    *rand.Rand

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
}

// NewSimulation creates a simulation at full energy.
func NewSimulation(nodes []*graph.Node, cfg SimulationConfig) *Simulation {
	alphaMin := cfg.AlphaMin
	if alphaMin <= 0 {
		alphaMin = DefaultAlphaMin
	}
	decay := cfg.AlphaDecay
	if decay <= 0 {
		decay = 1 - math.Pow(alphaMin, 1.0/300)
	}
	return &Simulation{
		nodes:         nodes,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		alpha:         1,
		alphaMin:      alphaMin,
		alphaDecay:    decay,
		velocityDecay: cfg.VelocityDecay,
	}
}

// AddForce registers a force. Forces apply in registration order.
func (s *Simulation) AddForce(name string, f Force) {
	f.Initialize(s.nodes, s.rng)
	s.forces = append(s.forces, namedForce{name: name, force: f})
}

// Force returns the force registered under name, or nil.
func (s *Simulation) Force(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

// Nodes returns the simulated nodes.
func (s *Simulation) Nodes() []*graph.Node { return s.nodes }

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current energy, typically to reheat after pins change.
func (s *Simulation) SetAlpha(alpha float64) { s.alpha = alpha }

// Restart reheats the simulation to alpha so that ticking resumes even after
// it has settled.
func (s *Simulation) Restart(alpha float64) {
	s.alpha = math.Max(alpha, s.alphaMin)
}

// AlphaMin returns the settle threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// Settled reports whether the energy has dropped below AlphaMin.
func (s *Simulation) Settled() bool { return s.alpha < s.alphaMin }

// Tick cools the simulation, applies every force and integrates positions.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, nf := range s.forces {
		nf.force.Apply(s.alpha)
	}

	keep := 1 - s.velocityDecay
	for _, n := range s.nodes {
		if n.FX != nil {
			n.X = *n.FX
			n.VX = 0
		} else {
			n.X += n.VX
			n.VX *= keep
		}
		if n.FY != nil {
			n.Y = *n.FY
			n.VY = 0
		} else {
			n.Y += n.VY
			n.VY *= keep
		}
	}
}

// Run ticks until settled or maxTicks is reached and returns the tick count.
func (s *Simulation) Run(maxTicks int) int {
	ticks := 0
	for ticks < maxTicks && !s.Settled() {
		s.Tick()
		ticks++
	}
	return ticks
}
