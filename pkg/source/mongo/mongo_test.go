package mongo

import (
	"context"
	stderrors "errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/lineage/pkg/errors"
)

type fakeCollection struct {
	docs   []any
	err    error
	filter any
	opts   []*options.FindOptions
}

func (f *fakeCollection) Find(_ context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.filter = filter
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func TestLoad(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("64b7f0c2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatal(err)
	}
	coll := &fakeCollection{docs: []any{
		bson.D{{Key: "_id", Value: "ignored"}, {Key: "id", Value: "a"}, {Key: "name", Value: "Ada"}, {Key: "spouse_ids", Value: bson.A{"b"}}},
		bson.D{{Key: "_id", Value: "b"}, {Key: "width", Value: 120.0}},
		bson.D{{Key: "_id", Value: oid}, {Key: "father_id", Value: "a"}, {Key: "mother_id", Value: "b"}},
		bson.D{{Key: "_id", Value: int32(7)}},
		bson.D{{Key: "_id", Value: int64(8)}},
	}}
	s := newSource(coll, "lineage.persons")

	persons, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantIDs := []string{"a", "b", oid.Hex(), "7", "8"}
	if len(persons) != len(wantIDs) {
		t.Fatalf("Load() = %d persons, want %d", len(persons), len(wantIDs))
	}
	for i, id := range wantIDs {
		if persons[i].ID != id {
			t.Errorf("persons[%d].ID = %q, want %q", i, persons[i].ID, id)
		}
	}
	if p := persons[0]; p.Name != "Ada" || len(p.SpouseIDs) != 1 || p.SpouseIDs[0] != "b" {
		t.Errorf("persons[0] = %+v", p)
	}
	if p := persons[1]; p.Width != 120 {
		t.Errorf("persons[1].Width = %v, want 120", p.Width)
	}
	if p := persons[2]; p.FatherID != "a" || p.MotherID != "b" {
		t.Errorf("persons[2] parents = %q/%q, want a/b", p.FatherID, p.MotherID)
	}
}

func TestLoadSortsAndFilters(t *testing.T) {
	coll := &fakeCollection{}
	s := newSource(coll, "lineage.persons", WithFilter(bson.M{"tree": "smith"}))

	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	filter, ok := coll.filter.(bson.M)
	if !ok || filter["tree"] != "smith" {
		t.Errorf("filter = %v, want tree=smith", coll.filter)
	}
	if len(coll.opts) != 1 || coll.opts[0].Sort == nil {
		t.Errorf("find options = %v, want a sort", coll.opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		coll     *fakeCollection
		canceled bool
		wantCode errors.Code
	}{
		{
			name:     "MissingID",
			coll:     &fakeCollection{docs: []any{bson.D{{Key: "name", Value: "nobody"}}}},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "WrongType",
			coll:     &fakeCollection{docs: []any{bson.D{{Key: "id", Value: "a"}, {Key: "width", Value: "wide"}}}},
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "FindFails",
			coll:     &fakeCollection{err: stderrors.New("connection reset")},
			wantCode: errors.ErrCodeSource,
		},
		{
			name:     "Canceled",
			coll:     &fakeCollection{err: context.Canceled},
			canceled: true,
			wantCode: errors.ErrCodeCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.canceled {
				cancel()
			}
			_, err := newSource(tt.coll, "lineage.persons").Load(ctx)
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("Load() code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestConnectInvalidURL(t *testing.T) {
	for _, uri := range []string{"", "redis://localhost:6379", "localhost:27017"} {
		if _, err := Connect(context.Background(), uri, "lineage", "persons"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Connect(%q) error = %v, want %s", uri, err, errors.ErrCodeInvalidConfig)
		}
	}
}

func TestCloseWithoutClient(t *testing.T) {
	s := newSource(&fakeCollection{}, "lineage.persons")
	if err := s.Close(context.Background()); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if s.Name() != "lineage.persons" {
		t.Errorf("Name() = %q, want lineage.persons", s.Name())
	}
}
