package highlight

// Node types.
const (
	NodePerson = "person"
	NodeUnion  = "union"
)

// Edge types.
const (
	// EdgeLine joins two spouses.
	EdgeLine = "line"
	// EdgeUnion joins a parent to the union node of their couple.
	EdgeUnion = "union"
	// EdgeParent joins a union node, or a single parent, to a child.
	EdgeParent = "parent"
)

// Edge classes written by the engine.
const (
	ClassHighlight = "highlight-edge"
	ClassFaded     = "faded-edge"
	ClassSelected  = "selected-edge"
)

// Node is a rendered node. Person nodes carry the parent references the
// ancestor walk follows.
type Node struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Label     string `json:"label,omitempty"`
	FatherID  string `json:"fatherId,omitempty"`
	MotherID  string `json:"motherId,omitempty"`
	Highlight bool   `json:"highlight"`
}

// Edge is a rendered edge between two node IDs.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// NodeLookup resolves node IDs.
type NodeLookup interface {
	NodeByID(id string) (*Node, bool)
}

// Canvas is the rendered graph the engine reads and marks.
type Canvas interface {
	NodeLookup
	Nodes() []*Node
	Edges() []*Edge
	// SelectedEdge returns the ID of the selected edge, or "" if none.
	SelectedEdge() string
	AddClass(edgeID, class string)
	RemoveClass(edgeID, class string)
}

// Visibility reports whether a node is currently on screen.
type Visibility interface {
	IsNodeVisible(id string) bool
}

// LimitPolicy decides whether highlights are limited to visible nodes when
// the caller does not say.
type LimitPolicy interface {
	ShouldLimitHighlight() (bool, error)
}

// LimitFunc adapts a function to [LimitPolicy].
type LimitFunc func() (bool, error)

// ShouldLimitHighlight calls f.
func (f LimitFunc) ShouldLimitHighlight() (bool, error) { return f() }

// VisibleFunc adapts a function to [Visibility].
type VisibleFunc func(id string) bool

// IsNodeVisible calls f(id).
func (f VisibleFunc) IsNodeVisible(id string) bool { return f(id) }
