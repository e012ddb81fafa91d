package graph

import (
	"slices"

	"github.com/matzehuels/lineage/pkg/highlight"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// VizTypeFamily is the discriminator of positioned family layouts.
const VizTypeFamily = "family"

// Node kinds. They match the node types of [highlight.Canvas].
const (
	KindPerson = highlight.NodePerson
	KindUnion  = highlight.NodeUnion
)

// =============================================================================
// Graph - Family Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for a rendered family graph:
// person and union nodes plus the spouse, union and parent edges between
// them. Used for API responses, caching and cross-tool compatibility.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// =============================================================================
// Node - Unified Node Type
// =============================================================================

// Node is the unified node type for graphs and layouts. Position fields are
// only populated in a [Layout].
type Node struct {
	ID        string  `json:"id" bson:"id"`
	Label     string  `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Kind      string  `json:"kind" bson:"kind"`                       // "person" or "union"
	FatherID  string  `json:"father_id,omitempty" bson:"father_id,omitempty"`
	MotherID  string  `json:"mother_id,omitempty" bson:"mother_id,omitempty"`
	Row       int     `json:"row,omitempty" bson:"row,omitempty"` // Generation
	X         float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y         float64 `json:"y,omitempty" bson:"y,omitempty"`
	Width     float64 `json:"width,omitempty" bson:"width,omitempty"`
	Highlight bool    `json:"highlight,omitempty" bson:"highlight,omitempty"`
}

// IsUnion returns true if this is a union node.
func (n *Node) IsUnion() bool { return n.Kind == KindUnion }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Center returns the horizontal center of a positioned node.
func (n *Node) Center() float64 { return n.X + n.Width/2 }

// =============================================================================
// Edge - Rendered Connection
// =============================================================================

// Edge is a rendered connection between two node IDs. Classes carries the
// highlight state at export time.
type Edge struct {
	ID      string   `json:"id" bson:"id"`
	From    string   `json:"from" bson:"from"`
	To      string   `json:"to" bson:"to"`
	Kind    string   `json:"kind" bson:"kind"` // "line", "union" or "parent"
	Classes []string `json:"classes,omitempty" bson:"classes,omitempty"`
}

// HasClass reports whether the edge carries class.
func (e *Edge) HasClass(class string) bool { return slices.Contains(e.Classes, class) }

// =============================================================================
// Canvas ↔ Graph Conversion
// =============================================================================

// ClassReader is implemented by canvases that can report the classes of an
// edge, such as [highlight.MemoryCanvas].
type ClassReader interface {
	Classes(edgeID string) []string
}

// FromCanvas converts a canvas to its serialization format, in canvas order.
// Edge classes are exported when c implements [ClassReader].
func FromCanvas(c highlight.Canvas) Graph {
	nodes, edges := c.Nodes(), c.Edges()
	out := Graph{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, len(edges)),
	}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, nodeFromCanvas(n))
	}
	cr, _ := c.(ClassReader)
	for _, e := range edges {
		edge := Edge{ID: e.ID, From: e.Source, To: e.Target, Kind: e.Type}
		if cr != nil {
			edge.Classes = cr.Classes(e.ID)
		}
		out.Edges = append(out.Edges, edge)
	}
	return out
}

// nodeFromCanvas is the single point of conversion for canvas nodes. Labels
// equal to the ID are dropped.
func nodeFromCanvas(n *highlight.Node) Node {
	node := Node{
		ID:        n.ID,
		Kind:      n.Type,
		FatherID:  n.FatherID,
		MotherID:  n.MotherID,
		Highlight: n.Highlight,
	}
	if n.Label != n.ID {
		node.Label = n.Label
	}
	return node
}
