package layout

import (
	flex "github.com/redexp/go-flextree"

	"github.com/matzehuels/lineage/pkg/family"
)

// TreePlacer assigns initial horizontal positions to every node reachable
// from roots. Implementations must keep siblings in order with strictly
// increasing x and never let two subtrees overlap, counting spacing as part
// of each node's footprint. Nodes that are not reachable are left alone.
type TreePlacer interface {
	Place(roots []*family.Node, spacing float64)
}

// FlexTree places nodes with a variable-size tidy tree. All roots hang off a
// synthetic super-root so separate families share one coordinate space.
type FlexTree struct {
	// NodeHeight is the vertical footprint handed to the tree. Only the
	// horizontal output is used.
	NodeHeight float64
}

type superRoot struct{}

// Place implements [TreePlacer].
func (ft FlexTree) Place(roots []*family.Node, spacing float64) {
	if len(roots) == 0 {
		return
	}
	height := ft.NodeHeight
	if height <= 0 {
		height = DefaultRowHeight
	}

	seen := make(map[*family.Node]bool)
	tree := &flex.Tree{
		Input:  superRoot{},
		Width:  spacing,
		Height: height,
	}
	for _, r := range roots {
		if t := buildTree(r, spacing, height, seen); t != nil {
			tree.Children = append(tree.Children, t)
		}
	}

	tree.Reset()
	tree.Update()

	stack := []*flex.Tree{tree}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n, ok := t.Input.(*family.Node); ok {
			n.X = t.X - n.Width/2
		}
		stack = append(stack, t.Children...)
	}
}

// buildTree mirrors the children lists into flextree nodes. A node already
// placed under another parent is not visited again.
func buildTree(root *family.Node, spacing, height float64, seen map[*family.Node]bool) *flex.Tree {
	if seen[root] {
		return nil
	}
	seen[root] = true
	top := &flex.Tree{Input: root, Width: root.Width + spacing, Height: height}

	type frame struct {
		node *family.Node
		tree *flex.Tree
	}
	stack := []frame{{root, top}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range f.node.Children {
			if seen[c] {
				continue
			}
			seen[c] = true
			ct := &flex.Tree{Input: c, Width: c.Width + spacing, Height: height}
			f.tree.Children = append(f.tree.Children, ct)
			stack = append(stack, frame{c, ct})
		}
	}
	return top
}
