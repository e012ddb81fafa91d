package pipeline

import (
	"context"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/highlight"
	"github.com/matzehuels/lineage/pkg/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout runs the layout engine once, in the mode selected by
// opts.Chunked. Context errors are returned as coded errors.
func GenerateLayout(ctx context.Context, persons []family.Person, opts Options) (*layout.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	engine := layout.New(opts.Layout)

	var (
		res *layout.Result
		err error
	)
	if opts.Chunked {
		res, err = engine.TidyUpChunked(ctx, persons)
	} else {
		res, err = engine.TidyUp(ctx, persons)
	}
	if err != nil {
		return nil, errors.FromContext(err)
	}
	return res, nil
}

// =============================================================================
// Highlight
// =============================================================================

// Highlight builds the rendered graph of persons positioned by res and, when
// root is non-empty, marks the bloodline of root on it. An unknown root is a
// NOT_FOUND error.
func Highlight(ctx context.Context, persons []family.Person, res *layout.Result, root string, opts Options) (graph.Layout, *highlight.Bloodline, error) {
	canvas := highlight.NewMemoryCanvas(persons)
	if root == "" {
		return graph.FromResult(canvas, res), nil, nil
	}
	if _, ok := canvas.NodeByID(root); !ok {
		return graph.Layout{}, nil, errors.New(errors.ErrCodeNotFound, "person %q not found", root)
	}

	engine := highlight.New(canvas, highlight.IndexChildren(persons), highlight.Options{Logger: opts.Logger})
	run := engine.HighlightBloodline
	if opts.Chunked {
		run = engine.HighlightBloodlineChunked
	}
	bl, err := run(ctx, root, highlight.CallOptions{})
	if err != nil {
		return graph.Layout{}, nil, errors.FromContext(err)
	}

	l := graph.FromResult(canvas, res)
	l.Root = root
	return l, &bl, nil
}
