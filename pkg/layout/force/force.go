// Package force is a small velocity-Verlet relaxation primitive with link and
// collision constraints.
//
// The semantics follow the d3-force conventions the front end was
// tuned against: alpha cools geometrically towards AlphaTarget, each tick
// applies the forces to velocities, then positions integrate the decayed
// velocity. A node with FY set is pinned on the vertical axis.
//
// Simulations are deterministic: coincident points are separated by a jiggle
// drawn from a PCG source seeded by [Config.Seed], so two runs over the same
// input produce bit-identical positions regardless of how the ticks are
// scheduled.
package force

import (
	"math"
	"math/rand/v2"
	"slices"
)

// Node is a simulated point. Callers own the slice passed to [New] and read
// positions back from it after ticking.
type Node struct {
	X, Y   float64
	VX, VY float64

	// FY pins the vertical position when non-nil.
	FY *float64

	// Radius is the collision radius.
	Radius float64
}

// Link pulls Source and Target (indices into the node slice) towards
// Distance apart.
type Link struct {
	Source, Target int
	Distance       float64
	Strength       float64
}

// Config holds the cooling schedule.
type Config struct {
	Alpha             float64
	AlphaTarget       float64
	AlphaDecay        float64
	VelocityDecay     float64
	CollisionStrength float64
	Seed              uint64
}

// DefaultConfig returns the schedule used by the layout engine: full heat,
// alpha decay 0.05, velocity decay 0.4, rigid collisions.
func DefaultConfig() Config {
	return Config{
		Alpha:             1,
		AlphaTarget:       0,
		AlphaDecay:        0.05,
		VelocityDecay:     0.4,
		CollisionStrength: 1,
		Seed:              1,
	}
}

// Simulation advances nodes under link and collision constraints.
// It is not safe for concurrent use.
type Simulation struct {
	nodes []Node
	links []Link
	cfg   Config
	alpha float64

	bias  []float64
	order []int
	rng   *rand.Rand
}

// New creates a simulation over nodes. Links referencing out-of-range
// indices, or linking a node to itself, are dropped.
func New(nodes []Node, links []Link, cfg Config) *Simulation {
	s := &Simulation{
		nodes: nodes,
		cfg:   cfg,
		alpha: cfg.Alpha,
		order: make([]int, len(nodes)),
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}

	count := make([]int, len(nodes))
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(nodes) || l.Target < 0 || l.Target >= len(nodes) || l.Source == l.Target {
			continue
		}
		s.links = append(s.links, l)
		count[l.Source]++
		count[l.Target]++
	}

	s.bias = make([]float64, len(s.links))
	for i, l := range s.links {
		s.bias[i] = float64(count[l.Source]) / float64(count[l.Source]+count[l.Target])
	}
	for i := range s.order {
		s.order[i] = i
	}
	s.pin()
	return s
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Nodes returns the simulated nodes.
func (s *Simulation) Nodes() []Node { return s.nodes }

// Tick advances the simulation n steps.
func (s *Simulation) Tick(n int) {
	for range n {
		s.alpha += (s.cfg.AlphaTarget - s.alpha) * s.cfg.AlphaDecay
		s.applyLinks()
		s.applyCollisions()
		s.integrate()
	}
}

// Release clears every vertical pin.
func (s *Simulation) Release() {
	for i := range s.nodes {
		s.nodes[i].FY = nil
	}
}

func (s *Simulation) pin() {
	for i := range s.nodes {
		if n := &s.nodes[i]; n.FY != nil {
			n.Y = *n.FY
			n.VY = 0
		}
	}
}

func (s *Simulation) integrate() {
	keep := 1 - s.cfg.VelocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.FY != nil {
			n.Y = *n.FY
			n.VY = 0
		} else {
			n.VY *= keep
			n.Y += n.VY
		}
		n.VX *= keep
		n.X += n.VX
	}
}

func (s *Simulation) applyLinks() {
	for i, l := range s.links {
		src, dst := &s.nodes[l.Source], &s.nodes[l.Target]
		x := dst.X + dst.VX - src.X - src.VX
		y := dst.Y + dst.VY - src.Y - src.VY
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		if d == 0 {
			continue
		}
		k := (d - l.Distance) / d * s.alpha * l.Strength
		x *= k
		y *= k

		b := s.bias[i]
		dst.VX -= x * b
		dst.VY -= y * b
		src.VX += x * (1 - b)
		src.VY += y * (1 - b)
	}
}

// applyCollisions resolves overlapping circles the way d3's forceCollide
// does: nodes are visited by index, the visiting node's predicted position is
// frozen when its visit starts, and each partner with a higher index is read
// at its live predicted position. Candidate partners come from a sweep over
// the predicted x taken at the start of the pass.
func (s *Simulation) applyCollisions() {
	n := len(s.nodes)
	if n < 2 {
		return
	}
	px := make([]float64, n)
	maxR := 0.0
	for i := range s.nodes {
		px[i] = s.nodes[i].X + s.nodes[i].VX
		maxR = max(maxR, s.nodes[i].Radius)
	}
	slices.SortStableFunc(s.order, func(a, b int) int {
		switch {
		case px[a] < px[b]:
			return -1
		case px[a] > px[b]:
			return 1
		}
		return a - b
	})
	rank := make([]int, n)
	for r, i := range s.order {
		rank[i] = r
	}

	for i := range s.nodes {
		node := &s.nodes[i]
		xi, yi := node.X+node.VX, node.Y+node.VY
		reach := node.Radius + maxR
		for r := rank[i] - 1; r >= 0 && px[i]-px[s.order[r]] <= reach; r-- {
			s.collide(i, s.order[r], xi, yi)
		}
		for r := rank[i] + 1; r < n && px[s.order[r]]-px[i] <= reach; r++ {
			s.collide(i, s.order[r], xi, yi)
		}
	}
}

// collide pushes node i (frozen at xi, yi) and node j apart when they
// overlap. Each unordered pair is handled once, from its lower index.
func (s *Simulation) collide(i, j int, xi, yi float64) {
	if j <= i {
		return
	}
	node, other := &s.nodes[i], &s.nodes[j]
	ri, rj := node.Radius, other.Radius
	r := ri + rj
	x := xi - other.X - other.VX
	y := yi - other.Y - other.VY
	l := x*x + y*y
	if l >= r*r {
		return
	}
	if x == 0 {
		x = s.jiggle()
		l += x * x
	}
	if y == 0 {
		y = s.jiggle()
		l += y * y
	}
	l = math.Sqrt(l)
	l = (r - l) / l * s.cfg.CollisionStrength
	x *= l
	y *= l
	share := rj * rj / (ri*ri + rj*rj)
	if ri == 0 && rj == 0 {
		share = 0.5
	}
	node.VX += x * share
	node.VY += y * share
	other.VX -= x * (1 - share)
	other.VY -= y * (1 - share)
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
