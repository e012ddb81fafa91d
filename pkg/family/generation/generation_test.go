package generation

import (
	"testing"

	"github.com/matzehuels/lineage/pkg/family"
)

func TestLongestPath(t *testing.T) {
	persons := []family.Person{
		{ID: "A", SpouseIDs: []string{"B"}},
		{ID: "B", SpouseIDs: []string{"A"}},
		{ID: "C", FatherID: "A", MotherID: "B", SpouseIDs: []string{"E"}},
		{ID: "D", FatherID: "A", MotherID: "B"},
		{ID: "E", SpouseIDs: []string{"C"}},
		{ID: "F", FatherID: "C", MotherID: "E"},
	}
	gens := LongestPath{}.Assign(persons)

	want := map[string]int{"A": 0, "B": 0, "C": 1, "D": 1, "E": 1, "F": 2}
	for id, w := range want {
		if got := gens.Of(id); got != w {
			t.Errorf("generation(%s) = %d, want %d", id, got, w)
		}
	}
	if got := gens.Max(); got != 2 {
		t.Errorf("Max() = %d, want 2", got)
	}
	if missing := gens.Missing(persons); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}
}

func TestLongestPathSpouseLiftsChildren(t *testing.T) {
	// q marries into generation 2, so q's child must land in generation 3.
	persons := []family.Person{
		{ID: "g0"},
		{ID: "g1", FatherID: "g0"},
		{ID: "p", FatherID: "g1", SpouseIDs: []string{"q"}},
		{ID: "q", SpouseIDs: []string{"p"}},
		{ID: "k", MotherID: "q"},
	}
	gens := LongestPath{}.Assign(persons)
	if gens.Of("q") != 2 {
		t.Errorf("generation(q) = %d, want 2", gens.Of("q"))
	}
	if gens.Of("k") != 3 {
		t.Errorf("generation(k) = %d, want 3", gens.Of("k"))
	}
}

func TestLongestPathCycleTerminates(t *testing.T) {
	persons := []family.Person{
		{ID: "x", FatherID: "y"},
		{ID: "y", FatherID: "x"},
		{ID: "z", FatherID: "z"},
	}
	gens := LongestPath{}.Assign(persons)
	if len(gens) != 3 {
		t.Errorf("len(gens) = %d, want 3", len(gens))
	}
	if gens.Of("z") != 0 {
		t.Errorf("self parent should be ignored, got %d", gens.Of("z"))
	}
}

func TestMapHelpers(t *testing.T) {
	var empty Map
	if empty.Max() != -1 {
		t.Errorf("Max() on empty = %d, want -1", empty.Max())
	}
	m := Map{"a": 1}
	if got := m.Missing([]family.Person{{ID: "a"}, {ID: "b"}}); len(got) != 1 || got[0] != "b" {
		t.Errorf("Missing() = %v, want [b]", got)
	}

	f := AssignerFunc(func([]family.Person) Map { return Map{"x": 7} })
	if f.Assign(nil).Of("x") != 7 {
		t.Error("AssignerFunc should delegate")
	}
}
