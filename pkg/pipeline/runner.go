package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/source"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
	keyTypeSource   = "source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → highlight → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, persons []family.Person, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, persons, opts)
	if err != nil {
		return nil, err
	}
	result.Positions = res
	result.Stats.PersonCount = res.Len()
	result.Stats.Duplicates = res.Duplicates
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	result.PersonsHash, _ = HashPersons(persons)

	r.Logger.Info("computed layout",
		"persons", res.Len(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Highlight
	highlightStart := time.Now()
	l, bl, err := Highlight(ctx, persons, res, opts.Highlight, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Bloodline = bl
	result.Stats.HighlightTime = time.Since(highlightStart)

	if bl != nil {
		r.Logger.Info("highlighted bloodline",
			"root", bl.Root,
			"persons", len(bl.Persons),
			"unions", len(bl.Unions),
			"duration", result.Stats.HighlightTime)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadPersons reads the person list from src. Sources that report a Name
// (remote collections) are cached for [cache.TTLSource]; local files are
// always read fresh. Refresh bypasses the cache read.
func (r *Runner) LoadPersons(ctx context.Context, src source.Source, opts Options) ([]family.Person, error) {
	named, ok := src.(interface{ Name() string })
	if !ok {
		return src.Load(ctx)
	}

	cacheKey := r.Keyer.SourceKey("mongo", named.Name())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []family.Person
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeSource)
				return cached, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeSource)
	}

	persons, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(persons); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSource); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeSource, len(data))
		}
	}
	r.Logger.Debug("loaded persons", "source", named.Name(), "count", len(persons))
	return persons, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit
// info. The key covers the person list (without positions) and every option
// that changes the numbers; chunked and sync runs share entries.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, persons []family.Person, opts Options) (*layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	personsHash, err := HashPersons(persons)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash persons")
	}
	cacheKey := r.Keyer.LayoutKey(personsHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				cached.Mode = opts.Mode()
				return &cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	res, err := GenerateLayout(ctx, persons, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, persons []family.Person, opts Options) (*layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, persons, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. Artifacts are keyed by the hash of the serialized layout, which
// includes its highlight state.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Run ids differ between otherwise identical layouts.
	keyed := l
	keyed.RunID = ""
	layoutData, err := graph.MarshalLayout(keyed)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	rendered, err := Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
