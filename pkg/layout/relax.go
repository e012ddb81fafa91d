package layout

import (
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/family/generation"
	"github.com/matzehuels/lineage/pkg/layout/force"
)

// relaxation holds the simulation inputs for one run. Simulated X is the
// node center so that collision radii are symmetric around the box.
type relaxation struct {
	nodes []force.Node
	links []force.Link
}

// buildRelaxation creates one simulated node per graph node, pinned to its
// generation row, plus a zero-length link for every resolvable parent and a
// spacing/2 link for every distinct spousal pair.
func buildRelaxation(g *family.Graph, gens generation.Map, spacing, rowHeight float64, step family.StepFunc) (*relaxation, error) {
	order := g.Nodes()
	r := &relaxation{nodes: make([]force.Node, len(order))}

	for i, n := range order {
		fy := float64(gens.Of(n.ID)) * rowHeight
		r.nodes[i] = force.Node{
			X:      n.Center(),
			Y:      fy,
			FY:     &fy,
			Radius: n.Width/2 + spacing/2,
		}
	}

	spouses := make(map[[2]int]bool)
	for _, n := range order {
		father, mother := g.Parents(n)
		for _, p := range [...]*family.Node{father, mother} {
			if p != nil && p != n {
				r.links = append(r.links, force.Link{Source: p.Index, Target: n.Index, Distance: 0, Strength: 1})
			}
		}
		for _, s := range g.Spouses(n) {
			pair := [2]int{min(n.Index, s.Index), max(n.Index, s.Index)}
			if spouses[pair] {
				continue
			}
			spouses[pair] = true
			r.links = append(r.links, force.Link{Source: pair[0], Target: pair[1], Distance: spacing / 2, Strength: 1})
		}
		if step != nil {
			if err := step(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// run ticks the simulation, calling yield every ticksPerYield ticks when
// yield is non-nil, then releases the pins and writes positions back.
func (r *relaxation) run(g *family.Graph, cfg force.Config, ticks, ticksPerYield int, yield func() error) error {
	sim := force.New(r.nodes, r.links, cfg)
	if yield == nil || ticksPerYield <= 0 {
		sim.Tick(ticks)
	} else {
		for done := 0; done < ticks; {
			k := min(ticksPerYield, ticks-done)
			sim.Tick(k)
			done += k
			if err := yield(); err != nil {
				return err
			}
		}
	}
	sim.Release()

	for i, n := range g.Nodes() {
		sn := sim.Nodes()[i]
		n.SetCenter(sn.X)
		n.Y = sn.Y
	}
	return nil
}
