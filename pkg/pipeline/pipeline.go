// Package pipeline provides the core layout pipeline for lineage.
//
// This package implements the complete load → layout → highlight → render
// pipeline used by the CLI and the HTTP API. By centralizing this logic, both
// entry points share caching, validation and defaults.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read persons from a source (JSON file, MongoDB)
//  2. Layout: Compute positions with the layout engine
//  3. Highlight: Optionally mark the bloodline of one person
//  4. Render: Generate output in various formats (JSON, DOT, SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
// Layouts and artifacts are cached by content hash; the highlight stage is
// cheap and always recomputed.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Layout:    layout.DefaultOptions(),
//	    Highlight: "p42",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, persons, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, hit, err := runner.LayoutWithCacheInfo(ctx, persons, opts)
//	l, bl, err := pipeline.Highlight(ctx, persons, res, "p42", opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/highlight"
	"github.com/matzehuels/lineage/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Layout  layout.Options `json:"layout"`
	Chunked bool           `json:"chunked,omitempty"` // Yield between passes
	Refresh bool           `json:"refresh,omitempty"` // Ignore cached layouts

	// Highlight options
	Highlight string `json:"highlight,omitempty"` // Root person of the bloodline

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Generation and position in labels
	Scale    float64  `json:"scale,omitempty"`    // PNG scale factor

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// PersonsHash is the content hash of the person list.
	PersonsHash string

	// Positions is the raw engine output.
	Positions *layout.Result

	// Layout is the serializable positioned graph, including highlights.
	Layout graph.Layout

	// Bloodline is set when a highlight root was requested.
	Bloodline *highlight.Bloodline

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PersonCount   int
	Duplicates    int
	LayoutTime    time.Duration
	HighlightTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// DefaultOptions returns options with the default layout parameters.
func DefaultOptions() Options {
	return Options{Layout: layout.DefaultOptions()}
}

// ValidateAndSetDefaults checks option ranges and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Highlight != "" {
		if err := errors.ValidatePersonID(o.Highlight); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks the layout options and fills their defaults.
// Out-of-range values are rejected here rather than clamped by the engine.
func (o *Options) ValidateForLayout() error {
	if err := errors.ValidateGridSize(o.Layout.HorizontalGridSize); err != nil {
		return err
	}
	if err := errors.ValidateAttraction(o.Layout.RelativeAttraction); err != nil {
		return err
	}
	if o.Layout.RowHeight < 0 || o.Layout.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "row height and iterations must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Layout.Logger == nil {
		o.Layout.Logger = o.Logger
	}
	o.Layout.SetDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Mode returns the layout scheduling mode.
func (o *Options) Mode() layout.Mode {
	if o.Chunked {
		return layout.ModeChunked
	}
	return layout.ModeSync
}

// LayoutKeyOpts returns cache key options for layout computation. The
// scheduling mode is not part of the key: both modes produce the same
// positions.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		GridSize:   o.Layout.HorizontalGridSize,
		Attraction: o.Layout.RelativeAttraction,
		RowHeight:  o.Layout.RowHeight,
		Iterations: o.Layout.Iterations,
		Seed:       o.Layout.Seed,
		Assigner:   fmt.Sprintf("%T", o.Layout.Generations),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Highlight: o.Highlight,
		Labels:    o.Detailed,
	}
}

// HashPersons returns the content hash of a person list. Positions are
// excluded because the engine ignores them on input.
func HashPersons(persons []family.Person) (string, error) {
	stripped := make([]family.Person, len(persons))
	for i, p := range persons {
		p.X, p.Y = 0, 0
		stripped[i] = p
	}
	return cache.HashJSON(stripped)
}
