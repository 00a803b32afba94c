package pipeline

import (
	"context"
	"testing"

	"github.com/storyloom/storyloom/pkg/cache"
	"github.com/storyloom/storyloom/pkg/story"
)

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		wantErr  bool
	}{
		{"hierarchical", false},
		{"force", false},
		{"circular", false},
		{"timeline", false},
		{"invalid", true},
		{"Hierarchical", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStrategy(tt.strategy)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStrategy(%q) error = %v, wantErr %v", tt.strategy, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Empty options should pass: %v", err)
	}

	// Check defaults were set
	if opts.Strategy != DefaultStrategy {
		t.Errorf("Strategy should be %q, got %q", DefaultStrategy, opts.Strategy)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width should be %v, got %v", DefaultWidth, opts.Width)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height should be %v, got %v", DefaultHeight, opts.Height)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.Logger == nil {
		t.Error("Logger default should be set")
	}
}

func TestOptionsInvalidStrategy(t *testing.T) {
	opts := Options{Strategy: "spiral"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Invalid strategy should fail")
	}
}

func TestOptionsLayoutKeyOpts(t *testing.T) {
	opts := Options{Strategy: "circular", Cluster: true, Width: 1024, Height: 768, Seed: 7}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	ko := opts.LayoutKeyOpts()
	if ko.Strategy != "circular" || !ko.Cluster || ko.Width != 1024 || ko.Height != 768 || ko.Seed != 7 {
		t.Errorf("LayoutKeyOpts = %+v", ko)
	}
}

func testGraph(t *testing.T) *story.Graph {
	t.Helper()
	g := story.New()
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AddNode(story.Node{ID: id, BranchID: "main"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(story.Edge{ID: "e1", Source: "a", Target: "b"}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil, nil)
	g := testGraph(t)

	// First run computes
	res, err := r.Execute(ctx, g, Options{Strategy: "hierarchical"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("first run should not be a cache hit")
	}
	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.Positions) != 3 {
		t.Errorf("positions = %d, want 3", len(res.Positions))
	}
	if res.GraphHash == "" {
		t.Error("graph hash should be set")
	}

	// Second run hits the cache with identical positions
	res2, err := r.Execute(ctx, g, Options{Strategy: "hierarchical"})
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !res2.CacheInfo.LayoutHit {
		t.Error("second run should be a cache hit")
	}
	for id, p := range res.Positions {
		if res2.Positions[id] != p {
			t.Errorf("cached position for %s = %v, want %v", id, res2.Positions[id], p)
		}
	}

	// Refresh bypasses the cache
	res3, err := r.Execute(ctx, g, Options{Strategy: "hierarchical", Refresh: true})
	if err != nil {
		t.Fatalf("Execute (refresh): %v", err)
	}
	if res3.CacheInfo.LayoutHit {
		t.Error("refresh run must not be a cache hit")
	}
}

func TestRunnerDifferentOptionsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil, nil)
	g := testGraph(t)

	if _, err := r.Execute(ctx, g, Options{Strategy: "hierarchical"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, g, Options{Strategy: "circular"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("different strategy must not share a cache entry")
	}
}

func TestRunnerNilCollaborators(t *testing.T) {
	// nil cache, keyer, logger, and hooks all get working defaults
	r := NewRunner(nil, nil, nil, nil)
	g := testGraph(t)

	res, err := r.Execute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Positions) != 3 {
		t.Errorf("positions = %d, want 3", len(res.Positions))
	}
}

func TestRunnerInvalidStrategy(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if _, err := r.Execute(context.Background(), testGraph(t), Options{Strategy: "spiral"}); err == nil {
		t.Error("invalid strategy should fail")
	}
}
