package layout

import (
	"context"
	"runtime"
)

// pacer decides when a run hands control back to the scheduler.
//
// A synchronous pacer never yields and never looks at the context. A
// chunked pacer yields every `every` steps of the current stage.
type pacer struct {
	ctx     context.Context
	sync    bool
	every   int
	n       int
	stage   string
	yields  int
	onYield func(stage string)
}

func (p *pacer) enter(stage string, every int) {
	p.stage = stage
	p.every = every
	if p.sync {
		p.every = 0
	}
	p.n = 0
}

// step counts one unit of work and yields when the chunk is full.
func (p *pacer) step() error {
	if p.every <= 0 {
		return nil
	}
	p.n++
	if p.n < p.every {
		return nil
	}
	p.n = 0
	return p.yield()
}

func (p *pacer) yield() error {
	if p.every <= 0 {
		return nil
	}
	runtime.Gosched()
	p.yields++
	if p.onYield != nil {
		p.onYield(p.stage)
	}
	return p.ctx.Err()
}

// yieldStage yields once at the end of a stage that has no natural chunks.
func (p *pacer) yieldStage(stage string) error {
	p.enter(stage, 1)
	return p.yield()
}
