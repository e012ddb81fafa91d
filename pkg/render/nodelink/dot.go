package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/highlight"
	"github.com/matzehuels/lineage/pkg/render"
)

// DefaultNodeHeight is the drawn height of a person box in layout units.
const DefaultNodeHeight = 40.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the generation and position in person labels.
	// When false, only the display label is shown.
	Detailed bool

	// NodeHeight is the drawn height of person boxes. Zero means
	// [DefaultNodeHeight].
	NodeHeight float64
}

// Edge colors by class.
var classColors = map[string]string{
	highlight.ClassHighlight: "#d9480f",
	highlight.ClassFaded:     "#ced4da",
	highlight.ClassSelected:  "#1c7ed6",
}

// ToDOT converts a positioned layout to Graphviz DOT format.
//
// Every node is pinned at its layout position (pos="x,y!" with
// inputscale=72, so one layout unit is one point) and the y axis is flipped
// so generation 0 is drawn at the top. The DOT is meant for the neato engine,
// which keeps pinned positions; [RenderSVG] selects it.
//
// Union nodes are drawn as points. Spouse and union edges have no arrow
// heads. Highlighted persons are filled, and edges carry their highlight
// classes both as colors and as SVG classes.
func ToDOT(l graph.Layout, opts Options) string {
	height := opts.NodeHeight
	if height <= 0 {
		height = DefaultNodeHeight
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := fmtAttrs(n, height, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := fmtEdgeAttrs(e)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	return fmt.Sprintf("%s\ngen: %d\nx: %.0f", n.DisplayLabel(), n.Row, n.X)
}

func fmtAttrs(n graph.Node, height float64, detailed bool) []string {
	if n.IsUnion() {
		return []string{
			fmt.Sprintf("pos=%q", fmtPos(n.X, n.Y)),
			"shape=point",
			"width=0.08",
			fmt.Sprintf("class=%q", n.Kind),
		}
	}

	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=%q", fmtPos(n.Center(), n.Y)),
		"width=" + fmtInches(n.Width),
		"height=" + fmtInches(height),
		fmt.Sprintf("class=%q", n.Kind),
	}
	if n.Highlight {
		attrs = append(attrs, "fillcolor=\"#ffe8cc\"", "penwidth=2")
	}
	return attrs
}

func fmtEdgeAttrs(e graph.Edge) []string {
	attrs := []string{fmt.Sprintf("id=%q", e.ID)}
	if e.Kind != highlight.EdgeParent {
		attrs = append(attrs, "dir=none")
	}
	if e.Kind == highlight.EdgeLine {
		attrs = append(attrs, "style=dashed")
	}
	if len(e.Classes) > 0 {
		attrs = append(attrs, fmt.Sprintf("class=%q", strings.Join(e.Classes, " ")))
		// The engine keeps at most one class per edge.
		if color, ok := classColors[e.Classes[len(e.Classes)-1]]; ok {
			attrs = append(attrs, fmt.Sprintf("color=%q", color))
		}
		if e.HasClass(highlight.ClassHighlight) {
			attrs = append(attrs, "penwidth=3")
		}
	}
	return attrs
}

func fmtPos(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(0-y, 'f', 2, 64) + "!"
}

func fmtInches(v float64) string {
	return strconv.FormatFloat(max(v, 1)/72, 'f', 3, 64)
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing scales to its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
