package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/storyloom/storyloom/pkg/cache"
	"github.com/storyloom/storyloom/pkg/layout"
	"github.com/storyloom/storyloom/pkg/observability"
	"github.com/storyloom/storyloom/pkg/story"
	"github.com/storyloom/storyloom/pkg/storyfile"
)

// Runner encapsulates layout execution with caching.
// CLI, API, and TUI can all use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Hooks  *observability.Registry
}

// NewRunner creates a runner with the given cache, keyer, logger, and hooks.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If hooks is nil, a no-op registry is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, hooks *observability.Registry) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if hooks == nil {
		hooks = observability.NewRegistry()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Hooks:  hooks,
	}
}

// Execute computes a layout for the graph, consulting the cache first.
func (r *Runner) Execute(ctx context.Context, g *story.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Stats: Stats{
			NodeCount: g.NodeCount(),
			EdgeCount: g.EdgeCount(),
		},
	}

	graphData, err := storyfile.MarshalGraph(g)
	if err != nil {
		return nil, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	result.GraphHash = cache.Hash(graphData)

	start := time.Now()
	positions, hit, err := r.computeWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = positions
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Info("computed layout",
		"strategy", opts.Strategy,
		"nodes", result.Stats.NodeCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// ComputeLayout is a convenience wrapper that returns only the positions.
func (r *Runner) ComputeLayout(ctx context.Context, g *story.Graph, opts Options) (map[string]layout.Point, error) {
	res, err := r.Execute(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return res.Positions, nil
}

func (r *Runner) computeWithCacheInfo(ctx context.Context, g *story.Graph, graphHash string, opts Options) (map[string]layout.Point, bool, error) {
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached map[string]layout.Point
			if err := json.Unmarshal(data, &cached); err == nil {
				r.Hooks.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		r.Hooks.Cache().OnCacheMiss(ctx, "layout")
	}

	r.Hooks.Layout().OnLayoutStart(ctx, opts.Strategy, g.NodeCount())
	start := time.Now()
	positions, err := layout.Compute(g.Nodes(), g.Edges(), opts.strategy, opts.LayoutConfig())
	r.Hooks.Layout().OnLayoutComplete(ctx, opts.Strategy, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(positions); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			r.Hooks.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return positions, false, nil
}

// applyLogger propagates the runner's logger into options that carry none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
