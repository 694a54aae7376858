// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about hierarchy normalization, linker search, anchor
// resolution and column selection.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The pure packages (spec, hierarchy, axes, linker, anchor, selector) never
// call hooks. The catalog package and the CLI emit events around them.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolveHooks(&myResolveHooks{})
//	    observability.SetCatalogHooks(&myCatalogHooks{})
//	    // ... run application
//	}
//
// Callers emit events around core operations:
//
//	start := time.Now()
//	res, err := hierarchy.Normalize(axes)
//	observability.Resolve().OnNormalize(ctx, column, len(axes), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from hierarchy normalization and linker search.
type ResolveHooks interface {
	// Hierarchy events
	OnNormalize(ctx context.Context, column string, axisCount int, duration time.Duration, err error)
	OnCycleDetected(ctx context.Context, column string)

	// Linker graph events
	OnGraphBuilt(ctx context.Context, linkers, nodes, edges int, duration time.Duration, err error)
	OnLinkSearch(ctx context.Context, sources, targets, linkers int, duration time.Duration, err error)
}

// =============================================================================
// Anchor Hooks
// =============================================================================

// AnchorHooks receives events from anchored id derivation and resolution.
type AnchorHooks interface {
	// OnDerive records the derivation of one column id.
	OnDerive(ctx context.Context, column string, sliced bool, err error)

	// OnResolve records the resolution of one anchored selector.
	OnResolve(ctx context.Context, anchors int, err error)
}

// =============================================================================
// Catalog Hooks
// =============================================================================

// CatalogHooks receives events from column collection queries.
type CatalogHooks interface {
	// OnSelect records a selection over a collection.
	OnSelect(ctx context.Context, selectors, candidates, matched int, duration time.Duration, err error)

	// OnEnrich records columns added through linker reachability.
	OnEnrich(ctx context.Context, reachableAxes, added int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnNormalize(context.Context, string, int, time.Duration, error)    {}
func (NoopResolveHooks) OnCycleDetected(context.Context, string)                           {}
func (NoopResolveHooks) OnGraphBuilt(context.Context, int, int, int, time.Duration, error) {}
func (NoopResolveHooks) OnLinkSearch(context.Context, int, int, int, time.Duration, error) {}

// NoopAnchorHooks is a no-op implementation of AnchorHooks.
type NoopAnchorHooks struct{}

func (NoopAnchorHooks) OnDerive(context.Context, string, bool, error) {}
func (NoopAnchorHooks) OnResolve(context.Context, int, error)         {}

// NoopCatalogHooks is a no-op implementation of CatalogHooks.
type NoopCatalogHooks struct{}

func (NoopCatalogHooks) OnSelect(context.Context, int, int, int, time.Duration, error) {}
func (NoopCatalogHooks) OnEnrich(context.Context, int, int)                            {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks ResolveHooks = NoopResolveHooks{}
	anchorHooks  AnchorHooks  = NoopAnchorHooks{}
	catalogHooks CatalogHooks = NoopCatalogHooks{}
	hooksMu      sync.RWMutex
)

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetAnchorHooks registers custom anchor hooks.
// This should be called once at application startup.
func SetAnchorHooks(h AnchorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		anchorHooks = h
	}
}

// SetCatalogHooks registers custom catalog hooks.
// This should be called once at application startup.
func SetCatalogHooks(h CatalogHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		catalogHooks = h
	}
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Anchor returns the registered anchor hooks.
func Anchor() AnchorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return anchorHooks
}

// Catalog returns the registered catalog hooks.
func Catalog() CatalogHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return catalogHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolveHooks = NoopResolveHooks{}
	anchorHooks = NoopAnchorHooks{}
	catalogHooks = NoopCatalogHooks{}
}
