package interaction

import (
	"testing"

	"github.com/storyloom/storyloom/pkg/story"
)

func buildGraph(t *testing.T) *story.Graph {
	t.Helper()
	g := story.New()
	g.AddNode(story.Node{ID: "A", Position: story.Position{X: 0, Y: 0}})
	g.AddNode(story.Node{ID: "B", Position: story.Position{X: 200, Y: 0}})
	g.AddNode(story.Node{ID: "C", Position: story.Position{X: 0, Y: 200}})
	return g
}

func TestEdgeCreationHappyPath(t *testing.T) {
	g := buildGraph(t)
	c := NewController(g, Defaults{Type: story.EdgeCausal, Style: story.StyleSolid})

	c.Start("A")
	if c.State() != Creating {
		t.Fatalf("state = %v, want Creating", c.State())
	}
	s, ok := c.Session()
	if !ok || s.SourceID != "A" || s.Cursor != (story.Position{}) || s.CandidateID != "" {
		t.Fatalf("fresh session = %+v, want source A, origin cursor, no candidate", s)
	}

	// Within 40 units of B's center.
	c.UpdatePosition(180, 20)
	s, _ = c.Session()
	if s.CandidateID != "B" {
		t.Fatalf("candidate = %q, want B", s.CandidateID)
	}

	e, ok := c.Complete()
	if !ok {
		t.Fatal("Complete should create an edge")
	}
	if e.Source != "A" || e.Target != "B" {
		t.Errorf("edge = %s→%s, want A→B", e.Source, e.Target)
	}
	if e.Type != story.EdgeCausal || e.Style != story.StyleSolid {
		t.Errorf("edge defaults not applied: %+v", e)
	}
	if e.ID == "" {
		t.Error("edge should get a generated ID")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle after Complete", c.State())
	}

	// A second Complete without a new session does nothing.
	if _, ok := c.Complete(); ok {
		t.Error("Complete on idle controller should be a no-op")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1 after idle Complete", g.EdgeCount())
	}
}

func TestCandidateSelection(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{name: "OverB", x: 200, y: 0, want: "B"},
		{name: "EdgeOfSnapRadius", x: 160, y: 0, want: "B"},
		{name: "JustOutside", x: 159, y: 0, want: ""},
		{name: "OverSourceIsNotACandidate", x: 0, y: 0, want: ""},
		{name: "OverC", x: 10, y: 190, want: "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t)
			c := NewController(g, Defaults{})
			c.Start("A")
			c.UpdatePosition(tt.x, tt.y)
			s, _ := c.Session()
			if s.CandidateID != tt.want {
				t.Errorf("candidate = %q, want %q", s.CandidateID, tt.want)
			}
		})
	}
}

func TestCandidateClearedWhenCursorLeaves(t *testing.T) {
	g := buildGraph(t)
	c := NewController(g, Defaults{})
	c.Start("A")

	c.UpdatePosition(200, 0)
	if s, _ := c.Session(); s.CandidateID != "B" {
		t.Fatalf("candidate = %q, want B", s.CandidateID)
	}
	c.UpdatePosition(100, 100)
	if s, _ := c.Session(); s.CandidateID != "" {
		t.Errorf("candidate = %q, want cleared", s.CandidateID)
	}
}

func TestDuplicateEdgeRejected(t *testing.T) {
	g := buildGraph(t)
	g.AddEdge(story.Edge{ID: "e0", Source: "A", Target: "B"})
	c := NewController(g, Defaults{})

	c.Start("A")
	c.UpdatePosition(200, 0)
	if _, ok := c.Complete(); ok {
		t.Error("duplicate A→B should not be created")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	// The reverse direction is a distinct relationship and succeeds.
	c.Start("B")
	c.UpdatePosition(0, 0)
	if _, ok := c.Complete(); !ok {
		t.Error("reverse B→A should be created")
	}
	if !g.HasEdge("B", "A") {
		t.Error("edge B→A missing")
	}
}

func TestCompleteWithoutCandidate(t *testing.T) {
	g := buildGraph(t)
	c := NewController(g, Defaults{})

	c.Start("A")
	c.UpdatePosition(500, 500)
	if _, ok := c.Complete(); ok {
		t.Error("no candidate in range, no edge should be created")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestCancel(t *testing.T) {
	g := buildGraph(t)
	c := NewController(g, Defaults{})

	c.Start("A")
	c.UpdatePosition(200, 0)
	c.Cancel()
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle after Cancel", c.State())
	}
	if _, ok := c.Complete(); ok {
		t.Error("Complete after Cancel should create nothing")
	}

	// Cancel when idle is safe.
	c.Cancel()
}

func TestStartImplicitlyCancels(t *testing.T) {
	g := buildGraph(t)
	c := NewController(g, Defaults{})

	c.Start("A")
	c.UpdatePosition(200, 0)

	// A second Start replaces the live session entirely.
	c.Start("C")
	s, ok := c.Session()
	if !ok {
		t.Fatal("expected live session")
	}
	if s.SourceID != "C" || s.CandidateID != "" || s.Cursor != (story.Position{}) {
		t.Errorf("session = %+v, want fresh session from C", s)
	}
}

func TestStartUnknownSource(t *testing.T) {
	g := buildGraph(t)
	c := NewController(g, Defaults{})

	c.Start("missing")
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle for unknown source", c.State())
	}

	// UpdatePosition while idle is a no-op.
	c.UpdatePosition(200, 0)
	if _, ok := c.Session(); ok {
		t.Error("no session should exist")
	}
}
