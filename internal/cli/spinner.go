package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/lineage/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// stageSpinner animates a status line while a command runs. It registers
// itself as the layout hooks for its lifetime, so the line follows the
// engine through its passes ("relax · 4 yields") and the previous hooks still
// receive every event.
type stageSpinner struct {
	w     io.Writer
	label string
	next  observability.LayoutHooks

	mu      sync.Mutex
	stage   string
	yields  int
	persons int
	width   int

	once    sync.Once
	done    chan struct{}
	stopped chan struct{}
}

// startSpinner starts a spinner on w. It stops by itself when ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *stageSpinner {
	s := &stageSpinner{
		w:       w,
		label:   label,
		next:    observability.Layout(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	observability.SetLayoutHooks(s)
	go s.loop(ctx)
	return s
}

func (s *stageSpinner) loop(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *stageSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.statusLocked()
	s.width = max(s.width, len(line)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), styleDim.Render(line))
}

// status returns the text next to the animation.
func (s *stageSpinner) status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *stageSpinner) statusLocked() string {
	parts := []string{s.label}
	if s.persons > 0 {
		parts = append(parts, fmt.Sprintf("%d persons", s.persons))
	}
	if s.stage != "" {
		parts = append(parts, s.stage)
	}
	if s.yields > 0 {
		parts = append(parts, fmt.Sprintf("%d yields", s.yields))
	}
	return strings.Join(parts, " · ")
}

// stop ends the animation, clears the line and restores the previous
// hooks. Calling stop more than once is safe.
func (s *stageSpinner) stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		observability.SetLayoutHooks(s.next)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
		}
	})
}

// fail stops the spinner and leaves msg in its place.
func (s *stageSpinner) fail(msg string) {
	s.stop()
	fmt.Fprintln(s.w, markError+" "+msg)
}

// OnLayoutStart implements [observability.LayoutHooks].
func (s *stageSpinner) OnLayoutStart(ctx context.Context, runID, mode string, personCount int) {
	s.mu.Lock()
	s.persons, s.stage, s.yields = personCount, "", 0
	s.mu.Unlock()
	s.next.OnLayoutStart(ctx, runID, mode, personCount)
}

// OnStage implements [observability.LayoutHooks].
func (s *stageSpinner) OnStage(ctx context.Context, runID, stage string, d time.Duration) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
	s.next.OnStage(ctx, runID, stage, d)
}

// OnYield implements [observability.LayoutHooks].
func (s *stageSpinner) OnYield(ctx context.Context, runID, stage string) {
	s.mu.Lock()
	s.stage = stage
	s.yields++
	s.mu.Unlock()
	s.next.OnYield(ctx, runID, stage)
}

// OnLayoutComplete implements [observability.LayoutHooks].
func (s *stageSpinner) OnLayoutComplete(ctx context.Context, runID, mode string, d time.Duration, err error) {
	s.next.OnLayoutComplete(ctx, runID, mode, d, err)
}
