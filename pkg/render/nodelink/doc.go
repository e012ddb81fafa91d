// Package nodelink renders positioned family layouts as node-link diagrams.
//
// # Overview
//
// This package produces family tree drawings using Graphviz. Persons appear
// as boxes sized to their layout width, couples meet at small union points,
// and parent edges run from union points down to children. Unlike a regular
// Graphviz diagram the positions are not computed by Graphviz: every node is
// pinned where the layout engine put it.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, person labels include generation and x position
//   - NodeHeight: Drawn box height (default [DefaultNodeHeight])
//
// # Highlights
//
// Highlighted persons are filled. Edges carry their highlight classes as an
// SVG class attribute and a color, so a browser can restyle them without
// re-rendering.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
