// Package layout computes non-overlapping 2D coordinates for a family graph.
//
// A layout run converts a flat list of [family.Person] records into a
// [Result] holding one position per distinct person. The caller's records are
// never modified; use [Result.Apply] to write positions back.
//
// # Passes
//
// Every run executes the same five passes in order:
//
//  1. Build: [family.BuildWith] wires the working graph.
//  2. Hierarchy: a [TreePlacer] places each root's descendants as a tidy
//     tree. The default placer is backed by go-flextree.
//  3. Couples: every father and mother of a shared child are centered around
//     their midpoint, H apart.
//  4. Relax: a [force.Simulation] with parent and spouse links and
//     width-aware collision runs for [Options.Iterations] ticks with every
//     node pinned to its generation row.
//  5. Pack: rows are swept left to right so that adjacent nodes keep at least
//     H between them and spousal groups stay contiguous.
//
// H is the horizontal spacing derived from the options:
//
//	base := HorizontalGridSize * 4
//	H    := base - (base-HorizontalGridSize)*RelativeAttraction
//
// so attraction 0 spreads nodes by four grid cells and attraction 1 packs
// them one grid cell apart.
//
// # Modes
//
// [Engine.TidyUp] runs the passes back to back. [Engine.TidyUpChunked] runs
// the same passes but yields to the scheduler every [ChunkSize] items while
// building, aligning couples and constructing links, and every
// [TicksPerYield] simulation ticks. Both modes produce identical numbers for
// the same input; the chunked mode only changes when the work happens.
//
// A chunked run checks its context at every yield and stops with the
// context's error when it is canceled. Nothing is written back in that case.
//
// # Rows
//
// After any run every node's Y equals its generation times
// [Options.RowHeight]. Generations come from the configured
// [generation.Assigner]; [generation.LongestPath] is used when none is set.
//
// # Concurrency
//
// An [Engine] serializes its runs: a second call blocks until the first one
// returns. Separate engines are independent.
package layout
