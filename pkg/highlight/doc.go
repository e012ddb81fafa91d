// Package highlight marks the bloodline of a selected person on a rendered
// family graph.
//
// # Overview
//
// A bloodline is the root person, all of their ancestors, all of their
// descendants, and the unions (couples with a shared child) met on the way.
// [Trace] computes it; an [Engine] applies it to a [Canvas] by flagging nodes
// and classifying edges.
//
// # Canvas
//
// The engine never builds or owns the rendered graph. It reads nodes and
// edges through the [Canvas] interface and writes back through two
// channels: the Highlight flag on [Node] and CSS-like classes on edges via
// AddClass and RemoveClass. [MemoryCanvas] is an in-memory implementation
// built from a person list, used by the CLI, the HTTP API and tests.
//
// # Edge Classes
//
// After a highlight every edge carries at most one of:
//
//   - [ClassHighlight] when both endpoints are highlighted
//   - [ClassFaded] otherwise
//   - [ClassSelected] for the canvas's selected edge, whatever its endpoints
//
// # Limiting to Visible Nodes
//
// With limit mode on, non-root nodes that the [Visibility] collaborator
// rejects are not highlighted, and edges with no highlighted endpoint are
// left untouched instead of faded. Spouse edges ([EdgeLine]) are always
// classified. The mode comes from the call options first, then from the
// engine's [LimitPolicy], and defaults to off; a policy that fails or panics
// counts as off.
//
// # State
//
// An engine remembers the highlighted node and edge IDs and the active root.
// Highlighting the active root again is a no-op. Highlighting another root
// clears the previous highlight first. [Engine.ClearHighlights] resets
// everything unconditionally.
//
// # Chunked Mode
//
// [Engine.HighlightBloodlineChunked] applies nodes in batches of 50 and
// edges in batches of 100, yielding to the scheduler between batches. A
// canceled context stops the run, clears the partial highlight and returns
// the context's error.
package highlight
