package layout

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/lineage/pkg/family/generation"
)

const (
	// DefaultHorizontalGridSize is the grid cell used when none is configured.
	DefaultHorizontalGridSize = 20.0

	// DefaultRelativeAttraction sits halfway between spread and packed.
	DefaultRelativeAttraction = 0.5

	// DefaultRowHeight is the vertical distance between generations.
	DefaultRowHeight = 230.0

	// DefaultIterations is the number of relaxation ticks per run.
	DefaultIterations = 120

	// DefaultSeed seeds the relaxation jiggle.
	DefaultSeed = uint64(1)

	// TicksPerYield is how many relaxation ticks a chunked run performs
	// between yields.
	TicksPerYield = 10

	minChunk = 50
	maxChunk = 500
)

// Options configures an [Engine].
//
// The zero value is usable: zero fields take their defaults, except
// RelativeAttraction where zero is meaningful (maximum spread). Use
// [DefaultOptions] for the defaults.
type Options struct {
	// HorizontalGridSize is the grid cell in layout units.
	HorizontalGridSize float64 `json:"horizontalGridSize" mapstructure:"horizontalGridSize" toml:"horizontal_grid_size"`

	// RelativeAttraction in [0,1] trades spread for compactness. Values
	// outside the range are clamped.
	RelativeAttraction float64 `json:"relativeAttraction" mapstructure:"relativeAttraction" toml:"relative_attraction"`

	// RowHeight is the vertical distance between generations.
	RowHeight float64 `json:"rowHeight,omitempty" mapstructure:"rowHeight" toml:"row_height"`

	// Iterations is the number of relaxation ticks.
	Iterations int `json:"iterations,omitempty" mapstructure:"iterations" toml:"iterations"`

	// Seed seeds the deterministic jiggle used to separate coincident nodes.
	Seed uint64 `json:"seed,omitempty" mapstructure:"seed" toml:"seed"`

	// Generations assigns rows. Defaults to [generation.LongestPath].
	Generations generation.Assigner `json:"-" mapstructure:"-" toml:"-"`

	// Tree places the initial hierarchy. Defaults to [FlexTree].
	Tree TreePlacer `json:"-" mapstructure:"-" toml:"-"`

	// Logger receives pass timings at debug level and a run summary at info.
	// Defaults to a logger that discards everything.
	Logger *log.Logger `json:"-" mapstructure:"-" toml:"-"`
}

// DefaultOptions returns options with the default tuning.
func DefaultOptions() Options {
	return Options{
		HorizontalGridSize: DefaultHorizontalGridSize,
		RelativeAttraction: DefaultRelativeAttraction,
		RowHeight:          DefaultRowHeight,
		Iterations:         DefaultIterations,
		Seed:               DefaultSeed,
	}
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.HorizontalGridSize <= 0 {
		o.HorizontalGridSize = DefaultHorizontalGridSize
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.RelativeAttraction = clamp01(o.RelativeAttraction)
	if o.Generations == nil {
		o.Generations = generation.LongestPath{}
	}
	if o.Tree == nil {
		o.Tree = FlexTree{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// HSpacing returns H, the minimum horizontal gap between adjacent nodes.
func (o Options) HSpacing() float64 {
	grid := o.HorizontalGridSize
	if grid <= 0 {
		grid = DefaultHorizontalGridSize
	}
	base := grid * 4
	return base - (base-grid)*clamp01(o.RelativeAttraction)
}

// DecodeOptions builds Options from a loosely typed map such as a decoded
// JSON request body. Keys use the front end's camelCase names
// (horizontalGridSize, relativeAttraction, rowHeight, iterations, seed).
// Unknown keys are rejected.
func DecodeOptions(raw map[string]any) (Options, error) {
	opts := DefaultOptions()
	if len(raw) == 0 {
		return opts, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Options{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Options{}, fmt.Errorf("decode layout options: %w", err)
	}
	return opts, nil
}

// ChunkSize returns how many items a chunked run processes between yields
// for a list of n persons: n/10 clamped to [50, 500].
func ChunkSize(n int) int {
	return min(max(n/10, minChunk), maxChunk)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
