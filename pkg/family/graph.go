package family

import "slices"

// Node is the working copy of a [Person] used during one layout invocation.
// Children holds the persons attached to this node for hierarchical placement
// (see the package documentation for the attachment rule).
type Node struct {
	ID        string
	Name      string
	FatherID  string
	MotherID  string
	SpouseIDs []string
	Width     float64
	X, Y      float64
	Children  []*Node

	// Index is the node's position in the input list.
	Index int
}

// Center returns the horizontal center of the node.
func (n *Node) Center() float64 { return n.X + n.Width/2 }

// SetCenter moves the node so that its horizontal center is at c.
func (n *Node) SetCenter(c float64) { n.X = c - n.Width/2 }

// Right returns the right edge of the node.
func (n *Node) Right() float64 { return n.X + n.Width }

// StepFunc is called by [BuildWith] after each wired record. Returning an
// error aborts the build.
type StepFunc func() error

// Graph is the node map produced by [Build].
//
// The zero value is an empty graph. Graph is not safe for concurrent use.
type Graph struct {
	nodes      map[string]*Node
	order      []*Node
	roots      []*Node
	duplicates int
}

// Build converts a flat person list into a Graph. Records are copied; the
// caller's slice is never modified. An empty list yields an empty graph.
func Build(persons []Person) *Graph {
	g, _ := BuildWith(persons, nil)
	return g
}

// BuildWith is [Build] with a step callback invoked once per record while
// children lists are wired. It lets long builds yield cooperatively.
func BuildWith(persons []Person, step StepFunc) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*Node, len(persons)),
		order: make([]*Node, 0, len(persons)),
	}
	if len(persons) == 0 {
		return g, nil
	}

	for _, p := range persons {
		if _, exists := g.nodes[p.ID]; exists {
			g.duplicates++
			continue
		}
		n := &Node{
			ID:        p.ID,
			Name:      p.Name,
			FatherID:  p.FatherID,
			MotherID:  p.MotherID,
			SpouseIDs: slices.Clone(p.SpouseIDs),
			Width:     max(p.Width, 0),
			X:         p.X,
			Y:         p.Y,
			Index:     len(g.order),
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n)
	}

	for _, n := range g.order {
		father, hasFather := g.resolve(n.FatherID)
		mother, hasMother := g.resolve(n.MotherID)
		switch {
		case hasFather:
			father.Children = append(father.Children, n)
		case hasMother:
			mother.Children = append(mother.Children, n)
		default:
			g.roots = append(g.roots, n)
		}
		if step != nil {
			if err := step(); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (g *Graph) resolve(id string) (*Node, bool) {
	if id == "" {
		return nil, false
	}
	n, ok := g.nodes[id]
	return n, ok
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	return g.resolve(id)
}

// Nodes returns all nodes in input order. The slice is shared; do not modify it.
func (g *Graph) Nodes() []*Node {
	if g == nil {
		return nil
	}
	return g.order
}

// Roots returns the persons with no resolvable parent, in input order.
func (g *Graph) Roots() []*Node {
	if g == nil {
		return nil
	}
	return g.roots
}

// Len returns the number of distinct persons in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Duplicates returns how many input records were dropped because their ID
// had already been seen.
func (g *Graph) Duplicates() int {
	if g == nil {
		return 0
	}
	return g.duplicates
}

// Parents returns the resolved father and mother of n. Either may be nil.
func (g *Graph) Parents(n *Node) (father, mother *Node) {
	father, _ = g.resolve(n.FatherID)
	mother, _ = g.resolve(n.MotherID)
	return father, mother
}

// Spouses returns the resolved, de-duplicated spouses of n in the order they
// are listed. Self references are skipped.
func (g *Graph) Spouses(n *Node) []*Node {
	var out []*Node
	for _, id := range n.SpouseIDs {
		if id == n.ID {
			continue
		}
		s, ok := g.resolve(id)
		if !ok || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
