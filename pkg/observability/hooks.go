// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers build a
// [Registry] at startup and hand it to the components that emit events:
// layout computation, branch operations, and cache access.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Inject a Registry wherever events are emitted
//
// This approach:
//   - Avoids import cycles (hooks are wired by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Build a registry at application startup:
//
//	reg := observability.NewRegistry()
//	reg.SetLayoutHooks(&myLayoutHooks{})
//	runner := pipeline.NewRunner(cache, logger, reg)
//
// Libraries call hooks to emit events:
//
//	reg.Layout().OnLayoutStart(ctx, strategy, nodeCount)
//	// ... compute layout ...
//	reg.Layout().OnLayoutComplete(ctx, strategy, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout computation.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a layout pass.
	OnLayoutStart(ctx context.Context, strategy string, nodeCount int)

	// OnLayoutComplete records the end of a layout pass.
	OnLayoutComplete(ctx context.Context, strategy string, duration time.Duration, err error)
}

// =============================================================================
// Branch Hooks
// =============================================================================

// BranchHooks receives events from branch lifecycle operations.
type BranchHooks interface {
	// OnBranchCreate records a branch creation attempt.
	OnBranchCreate(ctx context.Context, branchID string, err error)

	// OnBranchTransition records an archive or merge transition.
	OnBranchTransition(ctx context.Context, branchID, status string, synced bool)

	// OnImpactPreview records an impact estimate request.
	OnImpactPreview(ctx context.Context, nodeID string, duration time.Duration, err error)
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

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}

// NoopBranchHooks is a no-op implementation of BranchHooks.
type NoopBranchHooks struct{}

func (NoopBranchHooks) OnBranchCreate(context.Context, string, error)                   {}
func (NoopBranchHooks) OnBranchTransition(context.Context, string, string, bool)        {}
func (NoopBranchHooks) OnImpactPreview(context.Context, string, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Registry
// =============================================================================

// Registry holds the hook implementations for one application instance.
// A zero-value Registry is not usable; construct with NewRegistry, which
// starts all hooks at their no-op defaults. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	layout LayoutHooks
	branch BranchHooks
	cache  CacheHooks
}

// NewRegistry returns a registry with no-op hooks in every slot.
func NewRegistry() *Registry {
	return &Registry{
		layout: NoopLayoutHooks{},
		branch: NoopBranchHooks{},
		cache:  NoopCacheHooks{},
	}
}

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func (r *Registry) SetLayoutHooks(h LayoutHooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil {
		r.layout = h
	}
}

// SetBranchHooks registers custom branch hooks.
// This should be called once at application startup before any branch operations.
func (r *Registry) SetBranchHooks(h BranchHooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil {
		r.branch = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func (r *Registry) SetCacheHooks(h CacheHooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != nil {
		r.cache = h
	}
}

// Layout returns the registered layout hooks.
func (r *Registry) Layout() LayoutHooks {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.layout
}

// Branch returns the registered branch hooks.
func (r *Registry) Branch() BranchHooks {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.branch
}

// Cache returns the registered cache hooks.
func (r *Registry) Cache() CacheHooks {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = NoopLayoutHooks{}
	r.branch = NoopBranchHooks{}
	r.cache = NoopCacheHooks{}
}
