package story

import "math"

// Direction identifies one of the four axis-aligned selection directions.
// Directions use graph-space orientation: y grows downward, so Up means
// decreasing y.
type Direction int

const (
	// DirUp selects toward decreasing y.
	DirUp Direction = iota
	// DirDown selects toward increasing y.
	DirDown
	// DirLeft selects toward decreasing x.
	DirLeft
	// DirRight selects toward increasing x.
	DirRight
)

const (
	// axisThreshold is the minimum primary-axis offset for a node to be
	// considered in a direction. Nodes closer than this are treated as
	// overlapping the current selection.
	axisThreshold = 50.0

	// secondaryWeight penalizes off-axis drift when scoring candidates.
	secondaryWeight = 0.5
)

// NearestInDirection returns the best candidate node in the given direction
// from the node from, or nil when no node qualifies.
//
// A node is a candidate only if it lies beyond axisThreshold along the
// primary axis for the direction and its secondary-axis offset is smaller in
// magnitude than its primary-axis offset, which keeps the selection roughly
// in-lane. Candidates are scored as primary distance plus half the absolute
// secondary distance; the lowest score wins.
//
// This is the single shared implementation of directional selection; both
// graph selection and any interactive frontend go through it rather than
// carrying their own copy of the constants.
func NearestInDirection(nodes []*Node, from *Node, dir Direction) *Node {
	if from == nil {
		return nil
	}

	var best *Node
	bestScore := math.Inf(1)

	for _, n := range nodes {
		if n.ID == from.ID {
			continue
		}
		dx := n.Position.X - from.Position.X
		dy := n.Position.Y - from.Position.Y

		var primary, secondary float64
		switch dir {
		case DirUp:
			primary, secondary = -dy, dx
		case DirDown:
			primary, secondary = dy, dx
		case DirLeft:
			primary, secondary = -dx, dy
		case DirRight:
			primary, secondary = dx, dy
		default:
			return nil
		}

		if primary <= axisThreshold {
			continue
		}
		if math.Abs(secondary) >= primary {
			continue
		}

		score := primary + secondaryWeight*math.Abs(secondary)
		if score < bestScore {
			bestScore = score
			best = n
		}
	}
	return best
}
