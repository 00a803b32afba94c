package layout

import (
	"slices"

	"github.com/storyloom/storyloom/pkg/story"
)

// Timeline layout constants.
const (
	// timelineStartX is the x position of the first node.
	timelineStartX = 100.0

	// timelineStep is the horizontal distance between consecutive nodes.
	timelineStep = 150.0

	// timelineUpperY and timelineLowerY alternate per node to avoid
	// label clumping on dense timelines.
	timelineUpperY = 300.0
	timelineLowerY = 400.0
)

// timeline sorts nodes by their pre-layout x coordinate and places them
// left-to-right at a fixed step. The incoming x is only a proxy for
// chronological order, not a semantic timestamp; the sort is stable so
// nodes sharing an x keep their relative order.
func timeline(nodes []*story.Node) map[string]Point {
	ordered := slices.Clone(nodes)
	slices.SortStableFunc(ordered, func(a, b *story.Node) int {
		switch {
		case a.Position.X < b.Position.X:
			return -1
		case a.Position.X > b.Position.X:
			return 1
		default:
			return 0
		}
	})

	positions := make(map[string]Point, len(ordered))
	for i, n := range ordered {
		y := timelineUpperY
		if i%2 == 1 {
			y = timelineLowerY
		}
		positions[n.ID] = Point{
			X: timelineStartX + float64(i)*timelineStep,
			Y: y,
		}
	}
	return positions
}
