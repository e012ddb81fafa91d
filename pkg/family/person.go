package family

import (
	"errors"
	"strconv"
)

// ErrEmptyID is returned by [Validate] when a person has no identifier.
var ErrEmptyID = errors.New("person ID must not be empty")

// Person is the flat record exchanged with upstream systems.
//
// Only ID is required. FatherID and MotherID may name persons that are not
// part of the current list; such references are treated as unknown. X and Y
// are outputs of a layout run and are ignored on input.
type Person struct {
	ID        string   `json:"id" bson:"id"`
	Name      string   `json:"name,omitempty" bson:"name,omitempty"`
	FatherID  string   `json:"fatherId,omitempty" bson:"father_id,omitempty"`
	MotherID  string   `json:"motherId,omitempty" bson:"mother_id,omitempty"`
	SpouseIDs []string `json:"spouseIds,omitempty" bson:"spouse_ids,omitempty"`
	Width     float64  `json:"width,omitempty" bson:"width,omitempty"`
	X         float64  `json:"x" bson:"x"`
	Y         float64  `json:"y" bson:"y"`
}

// HasBothParents reports whether both parent references are set.
// It does not check that the parents exist.
func (p Person) HasBothParents() bool {
	return p.FatherID != "" && p.MotherID != ""
}

// DisplayName returns the name if set, otherwise the ID.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// UnionKey returns the identifier of the couple formed by fatherID and
// motherID. The same key names the couple in layouts and highlight sets.
func UnionKey(fatherID, motherID string) string {
	return fatherID + "-" + motherID
}

// Validate checks that every person has an ID. Dangling parent and spouse
// references are allowed.
func Validate(persons []Person) error {
	for i, p := range persons {
		if p.ID == "" {
			return &IndexError{Index: i, Err: ErrEmptyID}
		}
	}
	return nil
}

// IndexError reports which record in a list failed validation.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return "person #" + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *IndexError) Unwrap() error { return e.Err }
