package layout

import "github.com/storyloom/storyloom/pkg/story"

// Hierarchical layout constants.
const (
	// levelSize is the number of nodes chunked into each level.
	levelSize = 3

	// levelWidth is the horizontal distance between levels.
	levelWidth = 200.0

	// stackSpacing is the vertical distance between nodes in a level.
	stackSpacing = 100.0

	// levelSkew is the per-level vertical offset applied when a group
	// spans more than one level.
	levelSkew = 50.0

	// groupGap is the horizontal gap between branch groups, past the
	// maximum x used by the previous group.
	groupGap = 2 * levelWidth
)

// hierarchical assigns nodes to levels by chunking each group's node order
// into buckets of levelSize. Levels advance along x; nodes within a level
// stack along y. Branch groups (when clustering is on) are laid out
// left-to-right, each starting past the previous group's rightmost level.
func hierarchical(nodes []*story.Node, cfg Config) map[string]Point {
	positions := make(map[string]Point, len(nodes))

	offsetX := 0.0
	for _, group := range groupByBranch(nodes, cfg.ClusterByBranch) {
		levels := (len(group) + levelSize - 1) / levelSize
		maxX := offsetX

		for i, n := range group {
			level := i / levelSize
			indexInLevel := i % levelSize

			x := offsetX + float64(level)*levelWidth
			y := float64(indexInLevel) * stackSpacing
			if levels > 1 {
				y += float64(level) * levelSkew
			}

			positions[n.ID] = Point{X: x, Y: y}
			if x > maxX {
				maxX = x
			}
		}

		offsetX = maxX + groupGap
	}
	return positions
}
