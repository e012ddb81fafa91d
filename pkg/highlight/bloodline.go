package highlight

import "github.com/matzehuels/lineage/pkg/family"

// Bloodline is the result of [Trace].
type Bloodline struct {
	Root string `json:"root"`
	// Persons holds the root, then ancestors, then descendants, each in
	// visit order.
	Persons []string `json:"persons"`
	// Unions holds union keys (see [family.UnionKey]) in discovery order.
	Unions []string `json:"unions"`
}

// IDs returns person IDs followed by union IDs.
func (b Bloodline) IDs() []string {
	out := make([]string, 0, len(b.Persons)+len(b.Unions))
	out = append(out, b.Persons...)
	return append(out, b.Unions...)
}

// Len returns the number of persons and unions.
func (b Bloodline) Len() int { return len(b.Persons) + len(b.Unions) }

// Trace walks the ancestors of root through the parent references on its
// nodes and the descendants of root through children. The two walks keep
// separate visited sets, so malformed cyclic data is truncated rather than
// looping. Unknown IDs end their branch; an unknown root yields an empty
// bloodline.
func Trace(nodes NodeLookup, children ChildrenIndex, root string) Bloodline {
	persons := newIDSet()
	unions := newIDSet()
	if _, ok := nodes.NodeByID(root); !ok {
		return Bloodline{Root: root, Persons: persons.slice(), Unions: unions.slice()}
	}

	// Ancestors.
	visited := make(map[string]bool)
	stack := []string{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		n, ok := nodes.NodeByID(id)
		if !ok {
			continue
		}
		persons.add(id)
		if n.FatherID != "" && n.MotherID != "" {
			unions.add(family.UnionKey(n.FatherID, n.MotherID))
		}
		// Push mother first so the father's line is visited first.
		if n.MotherID != "" {
			stack = append(stack, n.MotherID)
		}
		if n.FatherID != "" {
			stack = append(stack, n.FatherID)
		}
	}

	// Descendants.
	visited = make(map[string]bool)
	stack = append(stack[:0], root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		persons.add(id)
		kids := children.Children(id)
		for i := len(kids) - 1; i >= 0; i-- {
			c := kids[i]
			if c.HasBothParents() {
				unions.add(family.UnionKey(c.FatherID, c.MotherID))
			}
			if !visited[c.ID] {
				stack = append(stack, c.ID)
			}
		}
	}

	return Bloodline{Root: root, Persons: persons.slice(), Unions: unions.slice()}
}

// idSet is an insertion-ordered string set.
type idSet struct {
	order []string
	has   map[string]struct{}
}

func newIDSet() *idSet { return &idSet{has: make(map[string]struct{})} }

func (s *idSet) add(id string) bool {
	if _, ok := s.has[id]; ok {
		return false
	}
	s.has[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *idSet) contains(id string) bool {
	_, ok := s.has[id]
	return ok
}

func (s *idSet) len() int { return len(s.order) }

func (s *idSet) slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *idSet) reset() {
	s.order = s.order[:0]
	clear(s.has)
}
