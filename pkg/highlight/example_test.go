package highlight_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/highlight"
)

func ExampleEngine_HighlightBloodline() {
	persons := []family.Person{
		{ID: "anna", SpouseIDs: []string{"ben"}},
		{ID: "ben", SpouseIDs: []string{"anna"}},
		{ID: "carl", FatherID: "ben", MotherID: "anna"},
		{ID: "dora", FatherID: "ben", MotherID: "anna"},
	}
	canvas := highlight.NewMemoryCanvas(persons)
	engine := highlight.New(canvas, highlight.IndexChildren(persons), highlight.Options{})

	bl, err := engine.HighlightBloodline(context.Background(), "carl", highlight.CallOptions{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("persons:", bl.Persons)
	fmt.Println("unions:", bl.Unions)
	fmt.Println("dora edge:", canvas.Classes("parent:ben-anna:dora"))
	// Output:
	// persons: [carl ben anna]
	// unions: [ben-anna]
	// dora edge: [faded-edge]
}
