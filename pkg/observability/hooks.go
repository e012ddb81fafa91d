// Package observability provides hooks for metrics, tracing, and logging.
//
// The engines and the pipeline report what they do through small hook
// interfaces instead of importing a metrics backend. Consumers register
// implementations at startup; until then every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, runID, "chunked", len(persons))
//	// ... run passes ...
//	observability.Layout().OnLayoutComplete(ctx, runID, "chunked", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, runID, mode string, personCount int)
	// OnStage fires after each pass (build, hierarchy, couples, relax, pack).
	OnStage(ctx context.Context, runID, stage string, duration time.Duration)
	// OnYield fires each time a chunked run hands control back to the scheduler.
	OnYield(ctx context.Context, runID, stage string)
	OnLayoutComplete(ctx context.Context, runID, mode string, duration time.Duration, err error)
}

// =============================================================================
// Highlight Hooks
// =============================================================================

// HighlightHooks receives events from the highlight engine.
type HighlightHooks interface {
	OnHighlight(ctx context.Context, rootID string, nodes, edges int, duration time.Duration, err error)
	OnClear(ctx context.Context)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, string, int)                     {}
func (NoopLayoutHooks) OnStage(context.Context, string, string, time.Duration)                 {}
func (NoopLayoutHooks) OnYield(context.Context, string, string)                                {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, string, time.Duration, error) {}

// NoopHighlightHooks is a no-op implementation of HighlightHooks.
type NoopHighlightHooks struct{}

func (NoopHighlightHooks) OnHighlight(context.Context, string, int, int, time.Duration, error) {}
func (NoopHighlightHooks) OnClear(context.Context)                                             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks    LayoutHooks    = NoopLayoutHooks{}
	highlightHooks HighlightHooks = NoopHighlightHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetHighlightHooks registers custom highlight hooks.
func SetHighlightHooks(h HighlightHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		highlightHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Highlight returns the registered highlight hooks.
func Highlight() HighlightHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return highlightHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	highlightHooks = NoopHighlightHooks{}
	cacheHooks = NoopCacheHooks{}
}
