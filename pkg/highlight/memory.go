package highlight

import (
	"slices"
	"sync"

	"github.com/matzehuels/lineage/pkg/family"
)

// MemoryCanvas is an in-memory [Canvas] built from person records.
//
// It creates one person node per distinct ID, one union node per couple
// with a shared child, and edges:
//
//   - [EdgeLine] between spouses
//   - [EdgeUnion] from each parent to the union node of their couple
//   - [EdgeParent] from the union node to each child, or from the single
//     known parent when only one parent resolves
//
// MemoryCanvas also implements [Visibility]: with no visible set configured
// every node is visible.
type MemoryCanvas struct {
	mu       sync.RWMutex
	nodes    []*Node
	byID     map[string]*Node
	edges    []*Edge
	edgeByID map[string]*Edge
	classes  map[string][]string
	selected string
	visible  map[string]bool
}

// NewMemoryCanvas builds a canvas from persons. Duplicate IDs keep their
// first record. Unresolvable parent and spouse references are skipped.
func NewMemoryCanvas(persons []family.Person) *MemoryCanvas {
	c := &MemoryCanvas{
		byID:     make(map[string]*Node, len(persons)),
		edgeByID: make(map[string]*Edge),
		classes:  make(map[string][]string),
	}

	var records []family.Person
	for _, p := range persons {
		if _, dup := c.byID[p.ID]; dup || p.ID == "" {
			continue
		}
		n := &Node{ID: p.ID, Type: NodePerson, Label: p.DisplayName(), FatherID: p.FatherID, MotherID: p.MotherID}
		c.byID[n.ID] = n
		c.nodes = append(c.nodes, n)
		records = append(records, p)
	}

	for _, p := range records {
		_, hasFather := c.byID[p.FatherID]
		_, hasMother := c.byID[p.MotherID]
		switch {
		case hasFather && hasMother && p.FatherID != p.MotherID:
			key := family.UnionKey(p.FatherID, p.MotherID)
			if _, ok := c.byID[key]; !ok {
				u := &Node{ID: key, Type: NodeUnion}
				c.byID[key] = u
				c.nodes = append(c.nodes, u)
				c.addSpouseEdge(p.FatherID, p.MotherID)
				c.addEdge("union:"+p.FatherID+":"+key, p.FatherID, key, EdgeUnion)
				c.addEdge("union:"+p.MotherID+":"+key, p.MotherID, key, EdgeUnion)
			}
			c.addEdge("parent:"+key+":"+p.ID, key, p.ID, EdgeParent)
		case hasFather:
			c.addEdge("parent:"+p.FatherID+":"+p.ID, p.FatherID, p.ID, EdgeParent)
		case hasMother:
			c.addEdge("parent:"+p.MotherID+":"+p.ID, p.MotherID, p.ID, EdgeParent)
		}
	}

	for _, p := range records {
		for _, sid := range p.SpouseIDs {
			if _, ok := c.byID[sid]; ok && sid != p.ID {
				c.addSpouseEdge(p.ID, sid)
			}
		}
	}
	return c
}

func (c *MemoryCanvas) addSpouseEdge(a, b string) {
	if _, ok := c.edgeByID["line:"+family.UnionKey(b, a)]; ok {
		return
	}
	c.addEdge("line:"+family.UnionKey(a, b), a, b, EdgeLine)
}

func (c *MemoryCanvas) addEdge(id, src, dst, typ string) {
	if _, ok := c.edgeByID[id]; ok {
		return
	}
	e := &Edge{ID: id, Source: src, Target: dst, Type: typ}
	c.edgeByID[id] = e
	c.edges = append(c.edges, e)
}

// Nodes implements [Canvas].
func (c *MemoryCanvas) Nodes() []*Node { return c.nodes }

// Edges implements [Canvas].
func (c *MemoryCanvas) Edges() []*Edge { return c.edges }

// NodeByID implements [NodeLookup].
func (c *MemoryCanvas) NodeByID(id string) (*Node, bool) {
	n, ok := c.byID[id]
	return n, ok
}

// Edge returns the edge with the given ID.
func (c *MemoryCanvas) Edge(id string) (*Edge, bool) {
	e, ok := c.edgeByID[id]
	return e, ok
}

// SelectedEdge implements [Canvas].
func (c *MemoryCanvas) SelectedEdge() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Select marks edgeID as the selected edge. An empty ID clears the
// selection and drops the selected class from every edge.
func (c *MemoryCanvas) Select(edgeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if edgeID == "" {
		for id := range c.classes {
			c.removeClass(id, ClassSelected)
		}
	}
	c.selected = edgeID
}

// AddClass implements [Canvas].
func (c *MemoryCanvas) AddClass(edgeID, class string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.classes[edgeID], class) {
		c.classes[edgeID] = append(c.classes[edgeID], class)
	}
}

// RemoveClass implements [Canvas].
func (c *MemoryCanvas) RemoveClass(edgeID, class string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeClass(edgeID, class)
}

func (c *MemoryCanvas) removeClass(edgeID, class string) {
	cs := c.classes[edgeID]
	if i := slices.Index(cs, class); i >= 0 {
		cs = slices.Delete(cs, i, i+1)
	}
	if len(cs) == 0 {
		delete(c.classes, edgeID)
		return
	}
	c.classes[edgeID] = cs
}

// Classes returns the classes of edgeID in the order they were added.
func (c *MemoryCanvas) Classes(edgeID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.classes[edgeID])
}

// HasClass reports whether edgeID carries class.
func (c *MemoryCanvas) HasClass(edgeID, class string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.classes[edgeID], class)
}

// SetVisible restricts the visible nodes to ids. Calling it with no IDs
// makes every node visible again.
func (c *MemoryCanvas) SetVisible(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 {
		c.visible = nil
		return
	}
	c.visible = make(map[string]bool, len(ids))
	for _, id := range ids {
		c.visible[id] = true
	}
}

// IsNodeVisible implements [Visibility].
func (c *MemoryCanvas) IsNodeVisible(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible == nil || c.visible[id]
}

// Highlighted returns the IDs of highlighted nodes in canvas order.
func (c *MemoryCanvas) Highlighted() []string {
	var out []string
	for _, n := range c.nodes {
		if n.Highlight {
			out = append(out, n.ID)
		}
	}
	return out
}
