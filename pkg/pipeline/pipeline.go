// Package pipeline provides the layout computation pipeline for Storyloom.
//
// This package wraps layout computation with caching and instrumentation so
// CLI, API, and TUI components share one code path. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger, nil)
//	opts := pipeline.Options{
//	    Strategy: "hierarchical",
//	    Cluster:  true,
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positions := result.Positions
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/storyloom/storyloom/pkg/cache"
	"github.com/storyloom/storyloom/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultStrategy is the default layout strategy.
	DefaultStrategy = "hierarchical"

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Strategy string  `json:"strategy,omitempty"`
	Cluster  bool    `json:"cluster,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Seed     uint64  `json:"seed,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	// strategy is the parsed form of Strategy, set during validation.
	strategy layout.Strategy `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	s, err := layout.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.strategy = s

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutConfig returns the layout configuration for these options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		ClusterByBranch: o.Cluster,
		Width:           o.Width,
		Height:          o.Height,
		Seed:            o.Seed,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy: o.Strategy,
		Cluster:  o.Cluster,
		Width:    o.Width,
		Height:   o.Height,
		Seed:     o.Seed,
	}
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Positions maps node IDs to their computed positions.
	Positions map[string]layout.Point

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the layout came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	LayoutHit bool // Whether the layout result came from cache
}

// ValidateStrategy checks that a strategy name is valid.
func ValidateStrategy(name string) error {
	if _, err := layout.ParseStrategy(name); err != nil {
		return fmt.Errorf("invalid strategy: %q (must be one of: hierarchical, force, circular, timeline)", name)
	}
	return nil
}
