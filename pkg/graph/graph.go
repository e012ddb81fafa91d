package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/highlight"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a canvas to JSON bytes.
func MarshalGraph(c highlight.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(FromCanvas(c), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// WriteGraphFile writes a canvas to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(c highlight.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(FromCanvas(c), f)
}

// WriteGraph writes a canvas as JSON to an io.Writer.
func WriteGraph(c highlight.Canvas, w io.Writer) error {
	return writeGraphTo(FromCanvas(c), w)
}

// ReadGraphFile reads a JSON graph file and returns the person records it
// describes.
func ReadGraphFile(path string) ([]family.Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader into person records.
func ReadGraph(r io.Reader) ([]family.Person, error) {
	return readGraphFrom(r)
}

// Persons reconstructs the person records of g. Union nodes are dropped;
// spouse lists are rebuilt from line edges. Position fields are copied.
func (g Graph) Persons() []family.Person {
	spouses := make(map[string][]string)
	for _, e := range g.Edges {
		if e.Kind == highlight.EdgeLine {
			spouses[e.From] = append(spouses[e.From], e.To)
			spouses[e.To] = append(spouses[e.To], e.From)
		}
	}
	var out []family.Person
	for _, n := range g.Nodes {
		if n.IsUnion() {
			continue
		}
		out = append(out, family.Person{
			ID:        n.ID,
			Name:      n.Label,
			FatherID:  n.FatherID,
			MotherID:  n.MotherID,
			SpouseIDs: spouses[n.ID],
			Width:     n.Width,
			X:         n.X,
			Y:         n.Y,
		})
	}
	return out
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) ([]family.Person, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	persons := data.Persons()
	if err := family.Validate(persons); err != nil {
		return nil, err
	}
	return persons, nil
}
