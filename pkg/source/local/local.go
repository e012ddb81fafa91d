// Package local reads person lists from JSON files.
//
// Two layouts are accepted:
//
//	[{"id": "1", "fatherId": "2"}, {"id": "2"}]
//	{"persons": [{"id": "1", "fatherId": "2"}, {"id": "2"}]}
//
// The path "-" reads standard input.
package local

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Source reads persons from a JSON file.
type Source struct {
	path  string
	stdin io.Reader
}

// New returns a source reading path.
func New(path string) *Source {
	return &Source{path: path, stdin: os.Stdin}
}

// Path returns the file path.
func (s *Source) Path() string { return s.path }

// Load reads and validates the file.
func (s *Source) Load(ctx context.Context) ([]family.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	if s.path == Stdin {
		return Read(s.stdin)
	}
	return ReadFile(s.path)
}

// Close does nothing.
func (s *Source) Close(context.Context) error { return nil }

// ReadFile reads and validates a person file.
func ReadFile(path string) ([]family.Person, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "person file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes and validates a person list.
func Read(r io.Reader) ([]family.Person, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "empty person file")
		}
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read persons")
	}

	var persons []family.Person
	dec := json.NewDecoder(br)
	switch first {
	case '[':
		err = dec.Decode(&persons)
	case '{':
		var doc struct {
			Persons []family.Person `json:"persons"`
		}
		err = dec.Decode(&doc)
		persons = doc.Persons
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "expected a JSON array or object, got %q", first)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode persons")
	}

	if err := Validate(persons); err != nil {
		return nil, err
	}
	return persons, nil
}

// Validate checks every person ID.
func Validate(persons []family.Person) error {
	for i, p := range persons {
		if err := errors.ValidatePersonID(p.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "person #%d", i)
		}
	}
	return nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
