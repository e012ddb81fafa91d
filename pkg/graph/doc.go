// Package graph provides serialization types for family graphs and layouts.
//
// This package defines the canonical wire format for lineage data, used for
// JSON files, API responses, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - highlight.Canvas: Rendered node-link graph with highlight state
//   - layout.Result: Positions computed by a layout run
//
// Use [FromCanvas] and [FromResult] to export, and [Graph.Persons] to get
// person records back.
//
// # Core Types
//
//   - [Graph]: Person and union nodes plus line, union and parent edges
//   - [Layout]: The same graph with positions, rows and couples
//   - [Node], [Edge]: Shared structural types
//
// # Graph Serialization
//
//	{
//	  "nodes": [{"id": "A", "kind": "person"}, {"id": "A-B", "kind": "union"}],
//	  "edges": [{"id": "union:A:A-B", "from": "A", "to": "A-B", "kind": "union"}]
//	}
//
// Common operations:
//
//	graph.WriteGraphFile(canvas, "family.json")     // Canvas → File
//	persons, _ := graph.ReadGraphFile("family.json") // File → []family.Person
//	data, _ := graph.MarshalGraph(canvas)            // Canvas → []byte
//	g, _ := graph.UnmarshalGraph(data)               // []byte → Graph
//
// # Layout Serialization
//
// Layouts are discriminated by VizType, currently always "family":
//
//	l := graph.FromResult(canvas, result)
//	graph.WriteLayoutFile(l, "layout.json")
//
// Union nodes carry no placement of their own: they are centered between
// their parents, half a row below them.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
