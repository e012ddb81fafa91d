// Package family provides the in-memory genealogical graph shared by the
// layout and highlight engines.
//
// # Overview
//
// Upstream systems hand lineage a flat list of [Person] records. Each record
// names its father and mother by id and lists its spouses. This package turns
// that list into a [Graph]: a map of working [Node] copies with computed
// children lists and the set of root persons (those whose parents are not part
// of the list).
//
// # Basic Usage
//
//	g := family.Build([]family.Person{
//	    {ID: "a", SpouseIDs: []string{"b"}},
//	    {ID: "b", SpouseIDs: []string{"a"}},
//	    {ID: "c", FatherID: "a", MotherID: "b"},
//	})
//	roots := g.Roots() // a, b
//
// # Children Attachment
//
// A child is attached to at most one parent's [Node.Children] list: the
// father when he resolves, otherwise the mother. Hierarchical placement walks
// these lists as a forest, so attaching a child twice would place it twice.
// Passes that care about both parents read [Node.FatherID] and
// [Node.MotherID] directly.
//
// # Unions
//
// A union (couple) is a father/mother pair with at least one shared child. It
// is identified by [UnionKey], "fatherID-motherID", and is never stored; both
// engines derive it on demand.
//
// # Concurrency
//
// A Graph is built fresh for one engine invocation and is not safe for
// concurrent mutation.
package family
