package layout

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/lineage/pkg/family"
)

// Mode names how a run was scheduled.
type Mode string

const (
	ModeSync    Mode = "sync"
	ModeChunked Mode = "chunked"
)

// Placement is the computed position of one person. X is the left edge.
type Placement struct {
	ID         string  `json:"id" bson:"_id"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
	Width      float64 `json:"width" bson:"width"`
	Generation int     `json:"generation" bson:"generation"`
}

// Right returns the right edge of the placement.
func (p Placement) Right() float64 { return p.X + p.Width }

// Center returns the horizontal center of the placement.
func (p Placement) Center() float64 { return p.X + p.Width/2 }

// Result is the output of one layout run.
type Result struct {
	RunID      string        `json:"runId" bson:"run_id"`
	Mode       Mode          `json:"mode" bson:"mode"`
	HSpacing   float64       `json:"hSpacing" bson:"h_spacing"`
	RowHeight  float64       `json:"rowHeight" bson:"row_height"`
	Placements []Placement   `json:"placements" bson:"placements"`
	Couples    []Couple      `json:"couples,omitempty" bson:"couples,omitempty"`
	Duplicates int           `json:"duplicates,omitempty" bson:"duplicates,omitempty"`
	Duration   time.Duration `json:"duration" bson:"duration"`

	index map[string]int
}

func newResult(g *family.Graph, couples []Couple, gens map[string]int) *Result {
	r := &Result{
		Placements: make([]Placement, 0, g.Len()),
		Couples:    couples,
		Duplicates: g.Duplicates(),
	}
	for _, n := range g.Nodes() {
		r.Placements = append(r.Placements, Placement{
			ID:         n.ID,
			X:          n.X,
			Y:          n.Y,
			Width:      n.Width,
			Generation: gens[n.ID],
		})
	}
	return r
}

// Len returns the number of placements.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Placements)
}

// Placement returns the placement for id.
func (r *Result) Placement(id string) (Placement, bool) {
	if r == nil {
		return Placement{}, false
	}
	if r.index == nil {
		r.index = make(map[string]int, len(r.Placements))
		for i, p := range r.Placements {
			r.index[p.ID] = i
		}
	}
	i, ok := r.index[id]
	if !ok {
		return Placement{}, false
	}
	return r.Placements[i], true
}

// Rows groups placements by generation, each row sorted by x.
func (r *Result) Rows() map[int][]Placement {
	rows := make(map[int][]Placement)
	if r == nil {
		return rows
	}
	for _, p := range r.Placements {
		rows[p.Generation] = append(rows[p.Generation], p)
	}
	for _, row := range rows {
		slices.SortStableFunc(row, func(a, b Placement) int { return cmp.Compare(a.X, b.X) })
	}
	return rows
}

// Apply writes the computed X and Y into every record of persons whose ID has
// a placement and returns how many records were updated. Duplicated IDs all
// receive the same position.
func (r *Result) Apply(persons []family.Person) int {
	updated := 0
	for i := range persons {
		if p, ok := r.Placement(persons[i].ID); ok {
			persons[i].X = p.X
			persons[i].Y = p.Y
			updated++
		}
	}
	return updated
}
