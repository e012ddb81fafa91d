package layout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/family/generation"
	"github.com/matzehuels/lineage/pkg/layout/force"
	"github.com/matzehuels/lineage/pkg/observability"
)

// Engine runs layouts with a fixed set of options.
//
// Runs on the same Engine are serialized; it is safe to share one Engine
// between goroutines.
type Engine struct {
	opts Options
	mu   sync.Mutex
}

// New creates an engine. Zero-valued options take their defaults.
func New(opts Options) *Engine {
	opts.SetDefaults()
	return &Engine{opts: opts}
}

// Options returns the effective options of the engine.
func (e *Engine) Options() Options { return e.opts }

// TidyUp computes positions for persons in one uninterrupted run.
//
// The context is only checked before the run starts.
func (e *Engine) TidyUp(ctx context.Context, persons []family.Person) (*Result, error) {
	return e.run(ctx, persons, ModeSync)
}

// TidyUpChunked computes the same positions as [Engine.TidyUp] but yields to
// the scheduler between chunks of work. It returns ctx.Err() if the context
// is canceled at any yield point.
func (e *Engine) TidyUpChunked(ctx context.Context, persons []family.Person) (*Result, error) {
	return e.run(ctx, persons, ModeChunked)
}

func (e *Engine) run(ctx context.Context, persons []family.Person, mode Mode) (res *Result, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := e.opts.Logger.With("run", runID[:8], "mode", mode)
	hooks := observability.Layout()
	start := time.Now()
	hooks.OnLayoutStart(ctx, runID, string(mode), len(persons))
	defer func() {
		hooks.OnLayoutComplete(ctx, runID, string(mode), time.Since(start), err)
	}()

	spacing := e.opts.HSpacing()
	if len(persons) == 0 {
		logger.Debug("empty input")
		return &Result{RunID: runID, Mode: mode, HSpacing: spacing, RowHeight: e.opts.RowHeight}, nil
	}

	p := &pacer{
		ctx:  ctx,
		sync: mode == ModeSync,
		onYield: func(stage string) {
			hooks.OnYield(ctx, runID, stage)
		},
	}
	chunk := ChunkSize(len(persons))
	stage := func(name string, t time.Time) {
		d := time.Since(t)
		logger.Debug("pass complete", "pass", name, "duration", d)
		hooks.OnStage(ctx, runID, name, d)
	}

	// ===== Build =====
	t := time.Now()
	p.enter("build", chunk)
	g, err := family.BuildWith(persons, p.step)
	if err != nil {
		return nil, err
	}
	if d := g.Duplicates(); d > 0 {
		logger.Warn("duplicate person ids ignored", "count", d)
	}
	gens := e.opts.Generations.Assign(persons)
	if missing := gens.Missing(persons); len(missing) > 0 {
		logger.Warn("persons without generation placed in row 0", "count", len(missing))
	}
	stage("build", t)

	// ===== Hierarchy =====
	t = time.Now()
	for _, n := range g.Nodes() {
		n.X, n.Y = 0, 0
	}
	e.opts.Tree.Place(g.Roots(), spacing)
	stage("hierarchy", t)
	if err := p.yieldStage("hierarchy"); err != nil {
		return nil, err
	}

	// ===== Couples =====
	t = time.Now()
	p.enter("couples", chunk)
	couples, err := alignCouples(g, spacing, p.step)
	if err != nil {
		return nil, err
	}
	stage("couples", t)

	// ===== Relax =====
	t = time.Now()
	p.enter("relax", chunk)
	rel, err := buildRelaxation(g, gens, spacing, e.opts.RowHeight, p.step)
	if err != nil {
		return nil, err
	}
	cfg := force.DefaultConfig()
	cfg.Seed = e.opts.Seed
	p.enter("relax", TicksPerYield)
	var yield func() error
	if mode == ModeChunked {
		yield = p.yield
	}
	if err := rel.run(g, cfg, e.opts.Iterations, TicksPerYield, yield); err != nil {
		return nil, err
	}
	stage("relax", t)

	// ===== Pack =====
	t = time.Now()
	packRows(g, gens, spacing, e.opts.RowHeight)
	stage("pack", t)

	res = newResult(g, couples, completeGenerations(gens, g))
	res.RunID = runID
	res.Mode = mode
	res.HSpacing = spacing
	res.RowHeight = e.opts.RowHeight
	res.Duration = time.Since(start)

	logger.Info("layout complete",
		"persons", res.Len(),
		"couples", len(couples),
		"yields", p.yields,
		"duration", res.Duration)
	return res, nil
}

// completeGenerations returns gens restricted to the graph, with 0 for ids
// the assigner skipped.
func completeGenerations(gens generation.Map, g *family.Graph) map[string]int {
	out := make(map[string]int, g.Len())
	for _, n := range g.Nodes() {
		out[n.ID] = gens.Of(n.ID)
	}
	return out
}
