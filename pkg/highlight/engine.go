package highlight

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/observability"
)

const (
	// NodeBatch is how many nodes a chunked run marks between yields.
	NodeBatch = 50
	// EdgeBatch is how many edges a chunked run classifies between yields.
	EdgeBatch = 100
)

// Options configures an [Engine].
type Options struct {
	// Visibility filters nodes in limit mode. When nil, the canvas is used if
	// it implements [Visibility]; otherwise every node counts as visible.
	Visibility Visibility

	// Limit decides limit mode when a call does not. When nil, the canvas is
	// used if it implements [LimitPolicy].
	Limit LimitPolicy

	// Logger defaults to a logger that discards everything.
	Logger *log.Logger
}

// CallOptions are per-call settings.
type CallOptions struct {
	// LimitToVisible overrides the engine's [LimitPolicy] when set.
	LimitToVisible *bool `json:"limitToVisible,omitempty" mapstructure:"limitToVisible"`
}

// Limit returns CallOptions with LimitToVisible set to v.
func Limit(v bool) CallOptions { return CallOptions{LimitToVisible: &v} }

// Snapshot is a copy of the engine state.
type Snapshot struct {
	ActiveRoot string   `json:"activeRoot"`
	Nodes      []string `json:"nodes"`
	Edges      []string `json:"edges"`
}

// Engine applies bloodline highlights to one canvas. It is safe for
// concurrent use; calls are serialized.
type Engine struct {
	mu       sync.Mutex
	canvas   Canvas
	children ChildrenIndex
	vis      Visibility
	limit    LimitPolicy
	logger   *log.Logger

	nodes  *idSet
	edges  *idSet
	active string
}

// New creates an engine over canvas. A nil children index is built from the
// canvas's person nodes.
func New(canvas Canvas, children ChildrenIndex, opts Options) *Engine {
	if children == nil {
		children = IndexCanvas(canvas)
	}
	e := &Engine{
		canvas:   canvas,
		children: children,
		vis:      opts.Visibility,
		limit:    opts.Limit,
		logger:   opts.Logger,
		nodes:    newIDSet(),
		edges:    newIDSet(),
	}
	if e.vis == nil {
		e.vis, _ = canvas.(Visibility)
	}
	if e.limit == nil {
		e.limit, _ = canvas.(LimitPolicy)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// SetChildren replaces the children index, for example after the person
// list changed. The current highlight is kept.
func (e *Engine) SetChildren(children ChildrenIndex) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.children = children
}

// HighlightBloodline highlights the bloodline of id in one pass and returns
// it. The context is only checked before the run starts.
func (e *Engine) HighlightBloodline(ctx context.Context, id string, opts CallOptions) (Bloodline, error) {
	return e.run(ctx, id, opts, false)
}

// HighlightBloodlineChunked is [Engine.HighlightBloodline] in batches,
// yielding between them.
func (e *Engine) HighlightBloodlineChunked(ctx context.Context, id string, opts CallOptions) (Bloodline, error) {
	return e.run(ctx, id, opts, true)
}

// ClearHighlights removes every highlight flag and highlight class and
// forgets the active root.
func (e *Engine) ClearHighlights() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clear()
	observability.Highlight().OnClear(context.Background())
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{ActiveRoot: e.active, Nodes: e.nodes.slice(), Edges: e.edges.slice()}
}

func (e *Engine) clear() {
	for _, n := range e.canvas.Nodes() {
		n.Highlight = false
	}
	for _, edge := range e.canvas.Edges() {
		e.canvas.RemoveClass(edge.ID, ClassHighlight)
		e.canvas.RemoveClass(edge.ID, ClassFaded)
	}
	e.nodes.reset()
	e.edges.reset()
	e.active = ""
}

func (e *Engine) run(ctx context.Context, id string, opts CallOptions, chunked bool) (bl Bloodline, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Bloodline{}, err
	}
	if id == e.active && e.nodes.len() > 0 {
		e.logger.Debug("bloodline already highlighted", "root", id)
		return Trace(e.canvas, e.children, id), nil
	}

	start := time.Now()
	defer func() {
		observability.Highlight().OnHighlight(ctx, id, e.nodes.len(), e.edges.len(), time.Since(start), err)
	}()

	e.clear()
	bl = Trace(e.canvas, e.children, id)
	limit := e.shouldLimit(opts)

	yield := func() error { return nil }
	nodeBatch, edgeBatch := 0, 0
	if chunked {
		yield = func() error {
			runtime.Gosched()
			return ctx.Err()
		}
		nodeBatch, edgeBatch = NodeBatch, EdgeBatch
	}

	targets := bl.IDs()
	err = batches(len(targets), nodeBatch, yield, func(i int) {
		tid := targets[i]
		n, ok := e.canvas.NodeByID(tid)
		if !ok {
			return
		}
		if limit && tid != id && e.vis != nil && !e.vis.IsNodeVisible(tid) {
			return
		}
		n.Highlight = true
		e.nodes.add(tid)
	})
	if err == nil {
		edges := e.canvas.Edges()
		selected := e.canvas.SelectedEdge()
		err = batches(len(edges), edgeBatch, yield, func(i int) {
			e.classify(edges[i], selected, limit)
		})
	}
	if err != nil {
		e.clear()
		return Bloodline{}, err
	}

	e.active = id
	e.logger.Debug("highlighted bloodline",
		"root", id,
		"persons", len(bl.Persons),
		"unions", len(bl.Unions),
		"nodes", e.nodes.len(),
		"edges", e.edges.len(),
		"limit", limit,
		"chunked", chunked)
	return bl, nil
}

func (e *Engine) classify(edge *Edge, selected string, limit bool) {
	if edge.ID == selected && selected != "" {
		e.setClass(edge.ID, ClassSelected)
		return
	}
	src := e.nodes.contains(edge.Source)
	dst := e.nodes.contains(edge.Target)
	switch {
	case src && dst:
		e.setClass(edge.ID, ClassHighlight)
		e.edges.add(edge.ID)
	case limit && !src && !dst && edge.Type != EdgeLine:
		// Off-screen and unrelated: leave as is.
	default:
		e.setClass(edge.ID, ClassFaded)
	}
}

func (e *Engine) setClass(edgeID, class string) {
	for _, c := range [...]string{ClassHighlight, ClassFaded, ClassSelected} {
		if c != class {
			e.canvas.RemoveClass(edgeID, c)
		}
	}
	e.canvas.AddClass(edgeID, class)
}

// shouldLimit resolves limit mode. A failing or panicking policy means no
// limit.
func (e *Engine) shouldLimit(opts CallOptions) (limit bool) {
	if opts.LimitToVisible != nil {
		return *opts.LimitToVisible
	}
	if e.limit == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("limit policy panicked", "panic", fmt.Sprint(r))
			limit = false
		}
	}()
	v, err := e.limit.ShouldLimitHighlight()
	if err != nil {
		e.logger.Warn("limit policy failed", "err", err)
		return false
	}
	return v
}

// batches calls fn for 0..n-1, calling yield after every size items. A size
// of 0 means one batch with no yield.
func batches(n, size int, yield func() error, fn func(i int)) error {
	if size <= 0 {
		for i := range n {
			fn(i)
		}
		return nil
	}
	for lo := 0; lo < n; lo += size {
		for i := lo; i < min(lo+size, n); i++ {
			fn(i)
		}
		if err := yield(); err != nil {
			return err
		}
	}
	return nil
}
