package layout

import "github.com/matzehuels/lineage/pkg/family"

// Couple records one alignment: the father and mother of a shared child and
// the midpoint their centers were placed around.
type Couple struct {
	FatherID string  `json:"fatherId" bson:"father_id"`
	MotherID string  `json:"motherId" bson:"mother_id"`
	Midpoint float64 `json:"midpoint" bson:"midpoint"`
}

// Key returns the union key of the couple.
func (c Couple) Key() string { return family.UnionKey(c.FatherID, c.MotherID) }

// alignCouples centers each distinct father/mother pair around the midpoint
// of their current centers, spacing apart. Pairs are visited in the input
// order of their first shared child. A parent in several couples ends at the
// position set by the last one.
func alignCouples(g *family.Graph, spacing float64, step family.StepFunc) ([]Couple, error) {
	var couples []Couple
	seen := make(map[string]bool)
	for _, child := range g.Nodes() {
		father, mother := g.Parents(child)
		if father != nil && mother != nil && father != mother {
			key := family.UnionKey(father.ID, mother.ID)
			if !seen[key] {
				seen[key] = true
				mid := (father.Center() + mother.Center()) / 2
				father.SetCenter(mid - spacing/2)
				mother.SetCenter(mid + spacing/2)
				couples = append(couples, Couple{FatherID: father.ID, MotherID: mother.ID, Midpoint: mid})
			}
		}
		if step != nil {
			if err := step(); err != nil {
				return nil, err
			}
		}
	}
	return couples, nil
}
