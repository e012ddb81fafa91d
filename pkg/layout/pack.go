package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/family/generation"
)

// packRows removes the overlaps the relaxation left behind and pins every
// node to its row. Within a row:
//
//   - nodes are stably sorted by x and swept left to right so that each
//     starts at least spacing after the previous one's right edge
//   - spouses in the same row are merged into blocks; members of a block
//     keep spacing between each other
//   - blocks are ordered by their leftmost member and shifted as a whole so
//     that each starts at least spacing after everything placed before it
func packRows(g *family.Graph, gens generation.Map, spacing, rowHeight float64) {
	rows := make(map[int][]*family.Node)
	for _, n := range g.Nodes() {
		gen := gens.Of(n.ID)
		rows[gen] = append(rows[gen], n)
	}

	for gen, row := range rows {
		packRow(g, row, spacing)
		y := float64(gen) * rowHeight
		for _, n := range row {
			n.Y = y
		}
	}
}

func byX(a, b *family.Node) int { return cmp.Compare(a.X, b.X) }

func packRow(g *family.Graph, row []*family.Node, spacing float64) {
	slices.SortStableFunc(row, byX)
	sweep(row, spacing)

	index := make(map[*family.Node]int, len(row))
	for i, n := range row {
		index[n] = i
	}
	uf := newUnionFind(len(row))
	for i, n := range row {
		for _, s := range g.Spouses(n) {
			if j, ok := index[s]; ok {
				uf.union(i, j)
			}
		}
	}

	groups := uf.groups()
	blocks := make([][]*family.Node, len(groups))
	for b, members := range groups {
		block := make([]*family.Node, len(members))
		for k, i := range members {
			block[k] = row[i]
		}
		slices.SortStableFunc(block, byX)
		sweep(block, spacing)
		blocks[b] = block
	}
	slices.SortStableFunc(blocks, func(a, b []*family.Node) int { return byX(a[0], b[0]) })

	right := math.Inf(-1)
	for _, block := range blocks {
		if minX := right + spacing; block[0].X < minX {
			shift := minX - block[0].X
			for _, n := range block {
				n.X += shift
			}
		}
		for _, n := range block {
			right = max(right, n.Right())
		}
	}
}

// sweep pushes each node right until it clears its left neighbour.
func sweep(nodes []*family.Node, spacing float64) {
	for i := 1; i < len(nodes); i++ {
		if minX := nodes[i-1].Right() + spacing; nodes[i].X < minX {
			nodes[i].X = minX
		}
	}
}
