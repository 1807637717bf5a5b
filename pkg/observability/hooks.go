// Package observability provides hooks for instrumenting card builds.
//
// Libraries emit events through the registered hooks; by default every hook
// is a no-op. Applications that want metrics or tracing register their own
// implementations once at startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetSheetHooks(&mySheetHooks{})
//	    // ... run application
//	}
//
// Emitting an event:
//
//	observability.Render().OnCardStart(ctx, rec.Name)
//	// ... draw the card ...
//	observability.Render().OnCardComplete(ctx, rec.Name, path, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the card rendering stage.
type RenderHooks interface {
	// OnCardStart is called before a card is drawn.
	OnCardStart(ctx context.Context, name string)

	// OnCardComplete is called after a card is written (or failed).
	OnCardComplete(ctx context.Context, name, path string, duration time.Duration, err error)

	// OnFallback records a missing resource replaced by its default.
	// resource is "font" or "illustration".
	OnFallback(ctx context.Context, resource, requested, used string)
}

// =============================================================================
// Sheet Hooks
// =============================================================================

// SheetHooks receives events from the sheet paginator.
type SheetHooks interface {
	// OnSheetStart is called once the grid and page count are known.
	OnSheetStart(ctx context.Context, images, pages int)

	// OnPageComplete is called after each page is laid out. page is 1-based.
	OnPageComplete(ctx context.Context, page, images int)

	// OnSheetComplete is called after the document is written (or failed).
	OnSheetComplete(ctx context.Context, pages int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnCardStart(context.Context, string)                                  {}
func (NoopRenderHooks) OnCardComplete(context.Context, string, string, time.Duration, error) {}
func (NoopRenderHooks) OnFallback(context.Context, string, string, string)                   {}

// NoopSheetHooks is a no-op implementation of SheetHooks.
type NoopSheetHooks struct{}

func (NoopSheetHooks) OnSheetStart(context.Context, int, int)                      {}
func (NoopSheetHooks) OnPageComplete(context.Context, int, int)                    {}
func (NoopSheetHooks) OnSheetComplete(context.Context, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	sheetHooks  SheetHooks  = NoopSheetHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetSheetHooks registers custom sheet hooks. Nil is ignored.
func SetSheetHooks(h SheetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sheetHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Sheet returns the registered sheet hooks.
func Sheet() SheetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sheetHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	sheetHooks = NoopSheetHooks{}
}
