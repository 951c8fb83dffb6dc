package physics

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-netgraph/pkg/graph"
)

// Force contributes to node velocities (or positions) once per tick.
type Force interface {
	// Initialize binds the force to the simulated nodes. It is called when
	// the force is added to a simulation.
	Initialize(nodes []*graph.Node, rng *rand.Rand)
	// Apply runs one step scaled by the current alpha.
	Apply(alpha float64)
}

// jiggle returns a tiny deterministic offset used to separate coincident
// nodes, which would otherwise produce a zero-length direction vector.
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}

// LinkForce pulls linked nodes toward their target distance. Strength and
// bias follow node degree so that hubs move less than leaves.
type LinkForce struct {
	links         []*graph.Link
	defaultLength float64

	distances []float64
	strengths []float64
	bias      []float64
	rng       *rand.Rand
}

// NewLinkForce creates a link force. Links with no length use defaultLength.
func NewLinkForce(links []*graph.Link, defaultLength float64) *LinkForce {
	return &LinkForce{links: links, defaultLength: defaultLength}
}

func (f *LinkForce) Initialize(nodes []*graph.Node, rng *rand.Rand) {
	f.rng = rng
	degree := make(map[*graph.Node]int, len(nodes))
	for _, l := range f.links {
		degree[l.Source]++
		degree[l.Target]++
	}

	f.distances = make([]float64, len(f.links))
	f.strengths = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		ds, dt := float64(degree[l.Source]), float64(degree[l.Target])
		f.distances[i] = f.Distance(l)
		f.strengths[i] = 1 / math.Min(ds, dt)
		f.bias[i] = ds / (ds + dt)
	}
}

// Distance returns the target distance of a link.
func (f *LinkForce) Distance(l *graph.Link) float64 {
	if l.Length > 0 {
		return l.Length
	}
	return f.defaultLength
}

func (f *LinkForce) Apply(alpha float64) {
	for i, l := range f.links {
		s, t := l.Source, l.Target

		x := t.X + t.VX - s.X - s.VX
		if x == 0 {
			x = jiggle(f.rng)
		}
		y := t.Y + t.VY - s.Y - s.VY
		if y == 0 {
			y = jiggle(f.rng)
		}

		d := math.Sqrt(x*x + y*y)
		d = (d - f.distances[i]) / d * alpha * f.strengths[i]
		x *= d
		y *= d

		b := f.bias[i]
		t.VX -= x * b
		t.VY -= y * b
		s.VX += x * (1 - b)
		s.VY += y * (1 - b)
	}
}

// CollideForce keeps nodes from overlapping. Each node is a disc of radius
// offset+size; overlapping pairs are pushed apart along the line between
// their predicted positions, the smaller disc moving more.
type CollideForce struct {
	offset   float64
	strength float64

	nodes []*graph.Node
	radii []float64
	rng   *rand.Rand
}

// NewCollideForce creates a collision force with full strength.
func NewCollideForce(radiusOffset float64) *CollideForce {
	return &CollideForce{offset: radiusOffset, strength: 1}
}

func (f *CollideForce) Initialize(nodes []*graph.Node, rng *rand.Rand) {
	f.nodes = nodes
	f.rng = rng
	f.radii = make([]float64, len(nodes))
	for i, n := range nodes {
		f.radii[i] = f.Radius(n)
	}
}

// Radius returns the collision radius of a node.
func (f *CollideForce) Radius(n *graph.Node) float64 {
	return f.offset + n.Size
}

func (f *CollideForce) Apply(float64) {
	for i, ni := range f.nodes {
		ri := f.radii[i]
		ri2 := ri * ri
		xi := ni.X + ni.VX
		yi := ni.Y + ni.VY

		for j := i + 1; j < len(f.nodes); j++ {
			nj := f.nodes[j]
			rj := f.radii[j]
			r := ri + rj

			x := xi - nj.X - nj.VX
			y := yi - nj.Y - nj.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}

			if x == 0 {
				x = jiggle(f.rng)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.rng)
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l * f.strength
			x *= l
			y *= l

			rj2 := rj * rj
			ratio := rj2 / (ri2 + rj2)
			ni.VX += x * ratio
			ni.VY += y * ratio
			nj.VX -= x * (1 - ratio)
			nj.VY -= y * (1 - ratio)
		}
	}
}

// CenterForce translates all nodes so that their mean position sits on the
// center point. It moves positions directly and leaves velocities alone.
type CenterForce struct {
	X, Y     float64
	Strength float64

	nodes []*graph.Node
}

// NewCenterForce creates a centering force at (x, y).
func NewCenterForce(x, y float64) *CenterForce {
	return &CenterForce{X: x, Y: y, Strength: 1}
}

func (f *CenterForce) Initialize(nodes []*graph.Node, _ *rand.Rand) {
	f.nodes = nodes
}

func (f *CenterForce) Apply(float64) {
	if len(f.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}
	count := float64(len(f.nodes))
	sx = (sx/count - f.X) * f.Strength
	sy = (sy/count - f.Y) * f.Strength
	for _, n := range f.nodes {
		n.X -= sx
		n.Y -= sy
	}
}
