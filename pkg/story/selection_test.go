package story

import "testing"

// buildTriangle creates the three-node arrangement used throughout:
// A at the origin, B straight above, C straight to the right.
func buildTriangle(t *testing.T) *Graph {
	t.Helper()
	g := New()
	g.AddNode(Node{ID: "A", Position: Position{X: 0, Y: 0}})
	g.AddNode(Node{ID: "B", Position: Position{X: 0, Y: -100}})
	g.AddNode(Node{ID: "C", Position: Position{X: 100, Y: 0}})
	return g
}

func TestSelectDirectional(t *testing.T) {
	t.Run("FirstSelectionIsInsertionOrder", func(t *testing.T) {
		g := buildTriangle(t)
		if !g.SelectDirectional(DirUp) {
			t.Fatal("expected selection to change")
		}
		if id, _ := g.SelectedID(); id != "A" {
			t.Errorf("selected = %s, want A", id)
		}
	})

	t.Run("UpFromA", func(t *testing.T) {
		g := buildTriangle(t)
		g.Select("A")
		if !g.SelectDirectional(DirUp) {
			t.Fatal("expected selection to change")
		}
		if id, _ := g.SelectedID(); id != "B" {
			t.Errorf("selected = %s, want B", id)
		}
	})

	t.Run("RightFromA", func(t *testing.T) {
		g := buildTriangle(t)
		g.Select("A")
		if !g.SelectDirectional(DirRight) {
			t.Fatal("expected selection to change")
		}
		if id, _ := g.SelectedID(); id != "C" {
			t.Errorf("selected = %s, want C", id)
		}
	})

	t.Run("NoCandidateLeavesSelection", func(t *testing.T) {
		g := buildTriangle(t)
		g.Select("A")
		if g.SelectDirectional(DirLeft) {
			t.Error("no node lies to the left, selection should not change")
		}
		if id, _ := g.SelectedID(); id != "A" {
			t.Errorf("selected = %s, want A", id)
		}
	})

	t.Run("EmptyGraph", func(t *testing.T) {
		g := New()
		if g.SelectDirectional(DirDown) {
			t.Error("empty graph should not select anything")
		}
	})
}

func TestNearestInDirection(t *testing.T) {
	from := &Node{ID: "from"}

	tests := []struct {
		name  string
		nodes []*Node
		dir   Direction
		want  string // "" means no candidate
	}{
		{
			name:  "WithinThresholdIgnored",
			nodes: []*Node{{ID: "near", Position: Position{X: 40, Y: 0}}},
			dir:   DirRight,
			want:  "",
		},
		{
			// Secondary offset must be strictly smaller than the primary
			// offset to count as in-lane.
			name:  "OutOfLaneIgnored",
			nodes: []*Node{{ID: "diag", Position: Position{X: 60, Y: 80}}},
			dir:   DirRight,
			want:  "",
		},
		{
			name: "LowestScoreWins",
			nodes: []*Node{
				{ID: "far", Position: Position{X: 300, Y: 0}},
				{ID: "close", Position: Position{X: 120, Y: 40}},
			},
			dir:  DirRight,
			want: "close",
		},
		{
			// Score = primary + 0.5*|secondary|: a slightly farther node
			// dead ahead beats a nearer node with heavy drift.
			name: "DriftPenalty",
			nodes: []*Node{
				{ID: "drifting", Position: Position{X: 100, Y: 90}}, // score 145
				{ID: "straight", Position: Position{X: 140, Y: 0}},  // score 140
			},
			dir:  DirRight,
			want: "straight",
		},
		{
			name:  "UpUsesNegativeY",
			nodes: []*Node{{ID: "above", Position: Position{X: 10, Y: -80}}},
			dir:   DirUp,
			want:  "above",
		},
		{
			name:  "DownUsesPositiveY",
			nodes: []*Node{{ID: "below", Position: Position{X: 0, Y: 80}}},
			dir:   DirDown,
			want:  "below",
		},
		{
			name:  "LeftUsesNegativeX",
			nodes: []*Node{{ID: "west", Position: Position{X: -80, Y: 10}}},
			dir:   DirLeft,
			want:  "west",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := append([]*Node{from}, tt.nodes...)
			got := NearestInDirection(nodes, from, tt.dir)
			if tt.want == "" {
				if got != nil {
					t.Errorf("NearestInDirection = %s, want none", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("NearestInDirection = nil, want %s", tt.want)
			}
			if got.ID != tt.want {
				t.Errorf("NearestInDirection = %s, want %s", got.ID, tt.want)
			}
		})
	}
}
