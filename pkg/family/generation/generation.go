// Package generation assigns each person a generation index (row).
//
// The layout engine treats generation assignment as an external dependency
// behind the [Assigner] interface. [LongestPath] is the default
// implementation used by the CLI and API when no other assigner is supplied.
package generation

import "github.com/matzehuels/lineage/pkg/family"

// Map maps a person ID to its generation index (0 = top row).
type Map map[string]int

// Of returns the generation of id, or 0 if id has no entry.
func (m Map) Of(id string) int { return m[id] }

// Max returns the deepest generation in the map, or -1 if it is empty.
func (m Map) Max() int {
	deepest := -1
	for _, g := range m {
		deepest = max(deepest, g)
	}
	return deepest
}

// Missing returns the IDs in persons that have no entry in m, in input order.
// An assigner honouring its contract always yields an empty result.
func (m Map) Missing(persons []family.Person) []string {
	var out []string
	for _, p := range persons {
		if _, ok := m[p.ID]; !ok {
			out = append(out, p.ID)
		}
	}
	return out
}

// Assigner computes generations for a person list.
type Assigner interface {
	Assign(persons []family.Person) Map
}

// AssignerFunc adapts a function to the [Assigner] interface.
type AssignerFunc func(persons []family.Person) Map

// Assign calls f(persons).
func (f AssignerFunc) Assign(persons []family.Person) Map { return f(persons) }

// LongestPath places every person one row below its deepest known parent and
// lifts spouses to the deeper of their two rows.
//
// # Algorithm
//
// All persons start at row 0. Passes over the list then enforce
//   - child row ≥ parent row + 1 for each resolvable parent
//   - spouse rows equal (both take the maximum)
//
// until a pass changes nothing. Lifting a spouse can push their children
// down, which the next pass picks up.
//
// # Cycles
//
// Cyclic parent data never converges, so the number of passes is capped at
// len(persons)+1. Persons on a cycle end up at some finite row; no error is
// reported.
type LongestPath struct{}

// Assign implements [Assigner].
func (LongestPath) Assign(persons []family.Person) Map {
	gens := make(Map, len(persons))
	known := make(map[string]family.Person, len(persons))
	for _, p := range persons {
		if _, dup := known[p.ID]; dup {
			continue
		}
		known[p.ID] = p
		gens[p.ID] = 0
	}

	passes := len(known) + 1
	for pass := 0; pass < passes; pass++ {
		changed := false
		for _, p := range persons {
			for _, parent := range [2]string{p.FatherID, p.MotherID} {
				if _, ok := known[parent]; !ok || parent == p.ID {
					continue
				}
				if row := gens[parent] + 1; row > gens[p.ID] {
					gens[p.ID] = row
					changed = true
				}
			}
			for _, spouse := range p.SpouseIDs {
				if _, ok := known[spouse]; !ok || spouse == p.ID {
					continue
				}
				a, b := gens[p.ID], gens[spouse]
				if a == b {
					continue
				}
				row := max(a, b)
				gens[p.ID], gens[spouse] = row, row
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return gens
}
