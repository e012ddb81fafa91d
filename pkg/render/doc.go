// Package render provides format conversion for rendered family layouts.
//
// # Overview
//
// Layouts are drawn as SVG by the [nodelink] subpackage. This package turns
// any SVG into PDF or PNG using the external rsvg-convert tool (from
// librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage converts a positioned layout into Graphviz DOT
// with every node pinned at its computed position, so Graphviz only routes
// edges and draws. Highlight state is carried into the drawing as colors and
// SVG classes.
//
// [nodelink]: github.com/matzehuels/lineage/pkg/render/nodelink
package render
