package layout

import (
	"math"

	"github.com/storyloom/storyloom/pkg/story"
)

// Circular layout constants.
const (
	// centerX, centerY fix the ring center on the canvas.
	centerX = 400.0
	centerY = 300.0

	// ringRadius is the single-ring radius without clustering.
	ringRadius = 200.0

	// clusterBaseRadius is the innermost ring radius with clustering.
	clusterBaseRadius = 150.0

	// clusterRingStep is the radius increase per branch ring.
	clusterRingStep = 100.0

	// startAngle places the first node at the top of the ring.
	startAngle = -math.Pi / 2
)

// circular places nodes evenly around a circle centered at (400,300).
// Without clustering all nodes share a single ring of radius 200. With
// clustering each branch group gets its own concentric ring, spaced
// independently, so small branches spread as widely as large ones.
func circular(nodes []*story.Node, cfg Config) map[string]Point {
	positions := make(map[string]Point, len(nodes))

	for gi, group := range groupByBranch(nodes, cfg.ClusterByBranch) {
		radius := ringRadius
		if cfg.ClusterByBranch {
			radius = clusterBaseRadius + clusterRingStep*float64(gi)
		}

		step := 2 * math.Pi / float64(len(group))
		for i, n := range group {
			angle := startAngle + step*float64(i)
			positions[n.ID] = Point{
				X: centerX + radius*math.Cos(angle),
				Y: centerY + radius*math.Sin(angle),
			}
		}
	}
	return positions
}
