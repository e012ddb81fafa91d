package force

import (
	"math"
	"testing"
)

func pinned(y float64) *float64 { return &y }

func TestLinkPullsIntoColumn(t *testing.T) {
	nodes := []Node{
		{X: 0, FY: pinned(0)},
		{X: 300, FY: pinned(230)},
	}
	sim := New(nodes, []Link{{Source: 0, Target: 1, Distance: 0, Strength: 1}}, DefaultConfig())
	before := math.Abs(nodes[1].X - nodes[0].X)
	sim.Tick(120)
	after := math.Abs(nodes[1].X - nodes[0].X)

	if after >= before {
		t.Errorf("link should pull nodes together: before %v, after %v", before, after)
	}
	if nodes[0].Y != 0 || nodes[1].Y != 230 {
		t.Errorf("pinned Y drifted: %v, %v", nodes[0].Y, nodes[1].Y)
	}
}

func TestCollisionSeparatesOverlap(t *testing.T) {
	nodes := []Node{
		{X: 0, FY: pinned(0), Radius: 50},
		{X: 10, FY: pinned(0), Radius: 50},
	}
	sim := New(nodes, nil, DefaultConfig())
	sim.Tick(120)

	if gap := math.Abs(nodes[1].X - nodes[0].X); gap < 60 {
		t.Errorf("collision should push nodes apart, gap = %v", gap)
	}
}

func TestAlphaDecay(t *testing.T) {
	sim := New(nil, nil, DefaultConfig())
	sim.Tick(1)
	if got, want := sim.Alpha(), 0.95; math.Abs(got-want) > 1e-12 {
		t.Errorf("Alpha() after 1 tick = %v, want %v", got, want)
	}
}

func TestInvalidLinksDropped(t *testing.T) {
	nodes := []Node{{X: 0}, {X: 10}}
	sim := New(nodes, []Link{
		{Source: 0, Target: 0, Strength: 1},
		{Source: -1, Target: 1, Strength: 1},
		{Source: 0, Target: 5, Strength: 1},
	}, DefaultConfig())
	if len(sim.links) != 0 {
		t.Errorf("links = %d, want 0", len(sim.links))
	}
}

func TestDeterministicAcrossTickSplits(t *testing.T) {
	build := func() []Node {
		return []Node{
			{X: 0, FY: pinned(0), Radius: 40},
			{X: 0, FY: pinned(0), Radius: 40},
			{X: 5, FY: pinned(230), Radius: 40},
		}
	}
	links := []Link{{Source: 0, Target: 2, Strength: 1}, {Source: 0, Target: 1, Distance: 40, Strength: 1}}

	a := build()
	New(a, links, DefaultConfig()).Tick(120)

	b := build()
	sim := New(b, links, DefaultConfig())
	for range 12 {
		sim.Tick(10)
	}

	for i := range a {
		if a[i].X != b[i].X {
			t.Errorf("node %d: X = %v vs %v", i, a[i].X, b[i].X)
		}
	}
}

func TestRelease(t *testing.T) {
	nodes := []Node{{FY: pinned(5)}}
	sim := New(nodes, nil, DefaultConfig())
	if nodes[0].Y != 5 {
		t.Errorf("Y = %v, want 5 after pinning", nodes[0].Y)
	}
	sim.Release()
	if nodes[0].FY != nil {
		t.Error("Release() should clear FY")
	}
}

func TestCollisionVisitOrder(t *testing.T) {
	// Node 1 is visited after node 0 has already pushed it right and node 2
	// further right; its second collision must see both updates.
	nodes := []Node{
		{X: 0, Radius: 10},
		{X: 5, Radius: 10},
		{X: 12, Radius: 10},
	}
	sim := New(nodes, nil, DefaultConfig())
	sim.applyCollisions()

	want := []float64{-11.5, -0.75, 12.25}
	for i, w := range want {
		if got := nodes[i].VX; math.Abs(got-w) > 1e-6 {
			t.Errorf("node %d: VX = %v, want %v", i, got, w)
		}
	}
}
