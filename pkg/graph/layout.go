package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/matzehuels/lineage/pkg/highlight"
	"github.com/matzehuels/lineage/pkg/layout"
)

// =============================================================================
// Layout - Positioned Family Graph
// =============================================================================

// Layout is the serialization format for a positioned family graph.
//
// Person nodes carry the placement computed by a layout run. Union nodes sit
// halfway between the rows of their couple and their children, centered on
// the couple's midpoint. Rows maps each generation to its person IDs sorted
// left to right.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Run metadata
	RunID     string  `json:"run_id,omitempty" bson:"run_id,omitempty"`
	Mode      string  `json:"mode,omitempty" bson:"mode,omitempty"`
	HSpacing  float64 `json:"h_spacing" bson:"h_spacing"`
	RowHeight float64 `json:"row_height" bson:"row_height"`

	// Frame: bounding box of all nodes
	MinX   float64 `json:"min_x" bson:"min_x"`
	MinY   float64 `json:"min_y" bson:"min_y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Graph structure
	Nodes   []Node           `json:"nodes" bson:"nodes"`
	Edges   []Edge           `json:"edges,omitempty" bson:"edges,omitempty"`
	Rows    map[int][]string `json:"rows,omitempty" bson:"rows,omitempty"`
	Couples []layout.Couple  `json:"couples,omitempty" bson:"couples,omitempty"`

	// Root is the person whose bloodline was highlighted, if any.
	Root string `json:"root,omitempty" bson:"root,omitempty"`
}

// IsFamily returns true if this is a family layout.
func (l *Layout) IsFamily() bool { return l.VizType == VizTypeFamily }

// Node returns the node with the given ID.
func (l *Layout) Node(id string) (Node, bool) {
	i := slices.IndexFunc(l.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// Graph returns the unpositioned structure of the layout.
func (l *Layout) Graph() Graph {
	return Graph{Nodes: l.Nodes, Edges: l.Edges}
}

// =============================================================================
// Result ↔ Layout Conversion
// =============================================================================

// FromResult combines a layout result with the canvas it was computed for.
// Canvas nodes without a placement keep a zero position. The highlight state
// of c is exported as node flags and edge classes.
func FromResult(c highlight.Canvas, r *layout.Result) Layout {
	g := FromCanvas(c)
	out := Layout{
		VizType: VizTypeFamily,
		Nodes:   g.Nodes,
		Edges:   g.Edges,
		Rows:    make(map[int][]string),
	}
	if r != nil {
		out.Couples = r.Couples
		out.RunID = r.RunID
		out.Mode = string(r.Mode)
		out.HSpacing = r.HSpacing
		out.RowHeight = r.RowHeight
	}

	byID := make(map[string]int, len(out.Nodes))
	for i := range out.Nodes {
		n := &out.Nodes[i]
		byID[n.ID] = i
		if p, ok := r.Placement(n.ID); ok {
			n.X, n.Y, n.Width, n.Row = p.X, p.Y, p.Width, p.Generation
		}
	}
	parents := make(map[string][]string)
	for _, e := range out.Edges {
		if e.Kind == highlight.EdgeUnion {
			parents[e.To] = append(parents[e.To], e.From)
		}
	}
	for i := range out.Nodes {
		if n := &out.Nodes[i]; n.IsUnion() {
			placeUnion(n, parents[n.ID], out.Nodes, byID, out.RowHeight)
		}
	}

	for gen, row := range r.Rows() {
		ids := make([]string, len(row))
		for i, p := range row {
			ids[i] = p.ID
		}
		out.Rows[gen] = ids
	}
	out.frame()
	return out
}

// placeUnion centers a union node between its parents, half a row below
// them.
func placeUnion(u *Node, parents []string, nodes []Node, byID map[string]int, rowHeight float64) {
	var centers []float64
	var y float64
	row := 0
	for _, pid := range parents {
		if i, ok := byID[pid]; ok {
			centers = append(centers, nodes[i].Center())
			y = max(y, nodes[i].Y)
			row = max(row, nodes[i].Row)
		}
	}
	if len(centers) == 0 {
		return
	}
	sum := 0.0
	for _, c := range centers {
		sum += c
	}
	u.X = sum / float64(len(centers))
	u.Y = y + rowHeight/2
	u.Row = row
}

func (l *Layout) frame() {
	if len(l.Nodes) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X+n.Width)
		maxY = max(maxY, n.Y)
	}
	l.MinX, l.MinY = minX, minY
	l.Width = maxX - minX
	l.Height = maxY - minY
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A missing viz type defaults to family; any other type is rejected.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.VizType == "" {
		l.VizType = VizTypeFamily
	}
	if !l.IsFamily() {
		return Layout{}, fmt.Errorf("unsupported viz type %q", l.VizType)
	}
	for i, n := range l.Nodes {
		if n.ID == "" {
			return Layout{}, fmt.Errorf("node #%d has no id", i)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
