package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/source/local"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persons.json")
	if err := os.WriteFile(path, []byte(`[{"id": "a"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		cfg      config.Source
		path     string
		wantCode errors.Code
	}{
		{name: "ConfiguredFile", cfg: config.Source{Kind: config.SourceFile, Path: path}},
		{name: "PathOverridesMongo", cfg: config.Source{Kind: config.SourceMongo}, path: path},
		{name: "EmptyPath", cfg: config.Source{Kind: config.SourceFile}, wantCode: errors.ErrCodeInvalidPath},
		{name: "BadMongoURI", cfg: config.Source{Kind: config.SourceMongo, MongoURI: "http://db"}, wantCode: errors.ErrCodeInvalidConfig},
		{name: "UnknownKind", cfg: config.Source{Kind: "sqlite"}, wantCode: errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(context.Background(), tt.cfg, tt.path, nil)
			if tt.wantCode != "" {
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Fatalf("Open() code = %q, want %q (err %v)", got, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer src.Close(context.Background())
			if _, ok := src.(*local.Source); !ok {
				t.Fatalf("Open() = %T, want *local.Source", src)
			}
			persons, err := src.Load(context.Background())
			if err != nil || len(persons) != 1 {
				t.Errorf("Load() = %v, %v; want one person", persons, err)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	s := Static{{ID: "a"}, {ID: "b"}}
	persons, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(persons) != 2 {
		t.Errorf("Load() = %d persons, want 2", len(persons))
	}
	var _ Source = Static([]family.Person{})
	if err := s.Close(context.Background()); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
