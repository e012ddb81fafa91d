// Package source loads person lists from the places they are kept.
//
// # Sources
//
//   - [local]: a JSON file, either a bare array of persons or an object
//     with a "persons" array
//   - [mongo]: a MongoDB collection, read-only
//
// Both return records validated at the boundary: every person has a
// non-empty ID without control characters. Dangling parent and spouse
// references are left for the layout engine to skip.
//
// [local]: github.com/matzehuels/lineage/pkg/source/local
// [mongo]: github.com/matzehuels/lineage/pkg/source/mongo
package source

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/source/local"
	"github.com/matzehuels/lineage/pkg/source/mongo"
)

// Source loads a person list.
type Source interface {
	// Load returns the persons in source order.
	Load(ctx context.Context) ([]family.Person, error)
	// Close releases connections held by the source.
	Close(ctx context.Context) error
}

// Static is a Source over an in-memory list.
type Static []family.Person

// Load returns the list.
func (s Static) Load(context.Context) ([]family.Person, error) { return s, nil }

// Close does nothing.
func (Static) Close(context.Context) error { return nil }

// Open creates the source described by cfg. path, when non-empty, overrides
// the configured file path and forces a file source.
func Open(ctx context.Context, cfg config.Source, path string, logger *log.Logger) (Source, error) {
	if path != "" {
		cfg.Kind = config.SourceFile
		cfg.Path = path
	}
	switch cfg.Kind {
	case config.SourceFile, "":
		if err := errors.ValidatePath(cfg.Path); err != nil {
			return nil, err
		}
		return local.New(cfg.Path), nil
	case config.SourceMongo:
		src, err := mongo.Connect(ctx, cfg.MongoURI, cfg.Database, cfg.Collection, mongo.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", cfg.Kind)
}
