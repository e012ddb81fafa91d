package layout

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/family"
)

func scenario() []family.Person {
	return []family.Person{
		{ID: "A", SpouseIDs: []string{"B"}, Width: 100},
		{ID: "B", SpouseIDs: []string{"A"}, Width: 100},
		{ID: "C", FatherID: "A", MotherID: "B", SpouseIDs: []string{"E"}, Width: 100},
		{ID: "D", FatherID: "A", MotherID: "B", Width: 100},
		{ID: "E", SpouseIDs: []string{"C"}, Width: 100},
		{ID: "F", FatherID: "C", MotherID: "E", Width: 100},
	}
}

// foundingCouples is the number of generation-0 couples in synthetic.
const foundingCouples = 11

// synthetic builds a family of doubling couples: 11 founding couples, every
// couple has two children, and every child except the last generation
// marries an in-law with no recorded parents. Each founding couple grows to
// 94 persons over six generations, so synthetic(6) has 1034.
func synthetic(generations int) []family.Person {
	var persons []family.Person
	width := func() float64 { return 80 + float64(len(persons)%5)*20 }
	add := func(p family.Person) string {
		p.Width = width()
		persons = append(persons, p)
		return p.ID
	}

	type couple struct{ father, mother string }
	var couples []couple
	for i := range foundingCouples {
		f := fmt.Sprintf("g0-f%d", i)
		m := fmt.Sprintf("g0-m%d", i)
		add(family.Person{ID: f, SpouseIDs: []string{m}})
		add(family.Person{ID: m, SpouseIDs: []string{f}})
		couples = append(couples, couple{f, m})
	}

	for gen := 1; gen < generations; gen++ {
		last := gen == generations-1
		var next []couple
		for ci, c := range couples {
			for k := range 2 {
				child := fmt.Sprintf("g%d-c%d-%d", gen, ci, k)
				if last {
					add(family.Person{ID: child, FatherID: c.father, MotherID: c.mother})
					continue
				}
				inlaw := fmt.Sprintf("g%d-i%d-%d", gen, ci, k)
				add(family.Person{ID: child, FatherID: c.father, MotherID: c.mother, SpouseIDs: []string{inlaw}})
				add(family.Person{ID: inlaw, SpouseIDs: []string{child}})
				if k == 0 {
					next = append(next, couple{child, inlaw})
				} else {
					next = append(next, couple{inlaw, child})
				}
			}
		}
		couples = next
	}
	return persons
}
