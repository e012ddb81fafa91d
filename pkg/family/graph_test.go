package family

import (
	"errors"
	"testing"
)

func scenario() []Person {
	return []Person{
		{ID: "A", SpouseIDs: []string{"B"}, Width: 100},
		{ID: "B", SpouseIDs: []string{"A"}, Width: 100},
		{ID: "C", FatherID: "A", MotherID: "B", SpouseIDs: []string{"E"}, Width: 100},
		{ID: "D", FatherID: "A", MotherID: "B", Width: 100},
		{ID: "E", SpouseIDs: []string{"C"}, Width: 100},
		{ID: "F", FatherID: "C", MotherID: "E", Width: 100},
	}
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildEmpty(t *testing.T) {
	g := Build(nil)
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
	if len(g.Roots()) != 0 {
		t.Errorf("Roots() = %v, want none", ids(g.Roots()))
	}
}

func TestBuildRootsAndChildren(t *testing.T) {
	g := Build(scenario())

	if got, want := ids(g.Roots()), []string{"A", "B", "E"}; !equal(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}

	a, _ := g.Node("A")
	if got, want := ids(a.Children), []string{"C", "D"}; !equal(got, want) {
		t.Errorf("A.Children = %v, want %v", got, want)
	}

	b, _ := g.Node("B")
	if len(b.Children) != 0 {
		t.Errorf("B.Children = %v, want none (father preferred)", ids(b.Children))
	}

	c, _ := g.Node("C")
	if got, want := ids(c.Children), []string{"F"}; !equal(got, want) {
		t.Errorf("C.Children = %v, want %v", got, want)
	}
}

func TestBuildMotherFallback(t *testing.T) {
	g := Build([]Person{
		{ID: "m"},
		{ID: "k", FatherID: "unknown", MotherID: "m"},
	})
	m, _ := g.Node("m")
	if got := ids(m.Children); !equal(got, []string{"k"}) {
		t.Errorf("m.Children = %v, want [k]", got)
	}
	if got := ids(g.Roots()); !equal(got, []string{"m"}) {
		t.Errorf("Roots() = %v, want [m]", got)
	}
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	in := []Person{{ID: "a", SpouseIDs: []string{"b"}, Width: -5}, {ID: "b"}}
	g := Build(in)

	a, _ := g.Node("a")
	a.X = 42
	a.SpouseIDs[0] = "z"

	if in[0].X != 0 {
		t.Errorf("input X modified: %v", in[0].X)
	}
	if in[0].SpouseIDs[0] != "b" {
		t.Errorf("input SpouseIDs modified: %v", in[0].SpouseIDs)
	}
	if a.Width != 0 {
		t.Errorf("negative width not clamped: %v", a.Width)
	}
}

func TestBuildDuplicates(t *testing.T) {
	g := Build([]Person{{ID: "a", Width: 1}, {ID: "a", Width: 2}})
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	if g.Duplicates() != 1 {
		t.Errorf("Duplicates() = %d, want 1", g.Duplicates())
	}
	a, _ := g.Node("a")
	if a.Width != 1 {
		t.Errorf("first record should win, got width %v", a.Width)
	}
}

func TestBuildCycleHasNoRoots(t *testing.T) {
	g := Build([]Person{
		{ID: "x", FatherID: "y"},
		{ID: "y", FatherID: "x"},
	})
	if len(g.Roots()) != 0 {
		t.Errorf("Roots() = %v, want none", ids(g.Roots()))
	}
}

func TestBuildWithStepError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	_, err := BuildWith(scenario(), func() error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("BuildWith() error = %v, want %v", err, stop)
	}
	if calls != 2 {
		t.Errorf("step called %d times, want 2", calls)
	}
}

func TestSpouses(t *testing.T) {
	g := Build([]Person{
		{ID: "a", SpouseIDs: []string{"b", "b", "a", "ghost", "c"}},
		{ID: "b"},
		{ID: "c"},
	})
	a, _ := g.Node("a")
	if got := ids(g.Spouses(a)); !equal(got, []string{"b", "c"}) {
		t.Errorf("Spouses(a) = %v, want [b c]", got)
	}
}

func TestNodeGeometry(t *testing.T) {
	n := &Node{X: 10, Width: 40}
	if n.Center() != 30 {
		t.Errorf("Center() = %v, want 30", n.Center())
	}
	if n.Right() != 50 {
		t.Errorf("Right() = %v, want 50", n.Right())
	}
	n.SetCenter(100)
	if n.X != 80 {
		t.Errorf("SetCenter(100) gave X = %v, want 80", n.X)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(scenario()); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	err := Validate([]Person{{ID: "a"}, {}})
	if !errors.Is(err, ErrEmptyID) {
		t.Fatalf("Validate() = %v, want ErrEmptyID", err)
	}
	var ie *IndexError
	if !errors.As(err, &ie) || ie.Index != 1 {
		t.Errorf("Validate() index = %v, want 1", err)
	}
}

func TestUnionKey(t *testing.T) {
	if got := UnionKey("A", "B"); got != "A-B" {
		t.Errorf("UnionKey() = %q, want %q", got, "A-B")
	}
}
