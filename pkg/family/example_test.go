package family_test

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/family"
)

func ExampleBuild() {
	g := family.Build([]family.Person{
		{ID: "anna", SpouseIDs: []string{"ben"}},
		{ID: "ben", SpouseIDs: []string{"anna"}},
		{ID: "carl", FatherID: "ben", MotherID: "anna"},
	})

	for _, r := range g.Roots() {
		fmt.Println("root:", r.ID)
	}
	ben, _ := g.Node("ben")
	fmt.Println("children of ben:", len(ben.Children))
	fmt.Println("union:", family.UnionKey("ben", "anna"))
	// Output:
	// root: anna
	// root: ben
	// children of ben: 1
	// union: ben-anna
}
