// Package cache provides content-addressed caching for computed layouts and
// rendered artifacts.
//
// A layout is a pure function of the person list and the layout options, so
// the pipeline keys it by a hash of both and can skip the engine entirely on
// a hit. Cached entries are disposable: they expire after a TTL and every
// backend treats unreadable entries as misses.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a Redis server, for the HTTP API
//   - [NullCache]: caching disabled
//
// # Keys
//
// Backends store opaque keys. A [Keyer] derives them from domain inputs;
// [ScopedKeyer] prefixes every key, which lets several trees or tenants share
// one Redis database.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLSource   = time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts holds every option that changes a layout's numbers.
type LayoutKeyOpts struct {
	GridSize   float64 `json:"grid"`
	Attraction float64 `json:"attraction"`
	RowHeight  float64 `json:"row_height"`
	Iterations int     `json:"iterations"`
	Seed       uint64  `json:"seed"`
	Assigner   string  `json:"assigner,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Highlight string `json:"highlight,omitempty"`
	Labels    bool   `json:"labels,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a layout by the hash of its person list.
	LayoutKey(personsHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// SourceKey keys a person list loaded from a source such as a
	// database collection.
	SourceKey(kind, location string) string
}

// DefaultKeyer produces keys of the form "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(personsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", personsHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// SourceKey implements [Keyer].
func (DefaultKeyer) SourceKey(kind, location string) string {
	return "source:" + kind + ":" + location
}
