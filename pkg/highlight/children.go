package highlight

import "github.com/matzehuels/lineage/pkg/family"

// ChildRef is one entry of a [ChildrenIndex].
type ChildRef struct {
	ID       string
	FatherID string
	MotherID string
}

// HasBothParents reports whether both parents are recorded.
func (c ChildRef) HasBothParents() bool { return c.FatherID != "" && c.MotherID != "" }

// ChildrenIndex maps a parent ID to its children. The descendant walk reads
// it instead of the rendered graph so that it can run before edges exist.
type ChildrenIndex map[string][]ChildRef

// Children returns the children recorded for id.
func (idx ChildrenIndex) Children(id string) []ChildRef { return idx[id] }

func (idx ChildrenIndex) add(c ChildRef) {
	if c.FatherID != "" {
		idx[c.FatherID] = append(idx[c.FatherID], c)
	}
	if c.MotherID != "" && c.MotherID != c.FatherID {
		idx[c.MotherID] = append(idx[c.MotherID], c)
	}
}

// IndexChildren builds a children index from person records. Later records
// with an already seen ID are ignored.
func IndexChildren(persons []family.Person) ChildrenIndex {
	idx := make(ChildrenIndex)
	seen := make(map[string]bool, len(persons))
	for _, p := range persons {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		idx.add(ChildRef{ID: p.ID, FatherID: p.FatherID, MotherID: p.MotherID})
	}
	return idx
}

// IndexCanvas builds a children index from the person nodes of a canvas.
func IndexCanvas(c Canvas) ChildrenIndex {
	idx := make(ChildrenIndex)
	for _, n := range c.Nodes() {
		if n.Type == NodeUnion {
			continue
		}
		idx.add(ChildRef{ID: n.ID, FatherID: n.FatherID, MotherID: n.MotherID})
	}
	return idx
}
