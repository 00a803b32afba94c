package layout

import (
	"math"
	"math/rand"

	"github.com/storyloom/storyloom/pkg/story"
)

// Force simulation constants.
const (
	// forceIterations is the fixed number of simulation steps. There is no
	// convergence check or early exit: for node counts much above a few
	// hundred the O(n²) per-iteration cost dominates, and callers should
	// offload the computation to a background worker rather than expect
	// the engine to approximate.
	forceIterations = 100

	// repulsionStrength scales the all-pairs inverse-square repulsion.
	repulsionStrength = 500.0

	// springLength is the natural length of an edge spring.
	springLength = 100.0

	// springStrength is the Hooke constant for edge attraction.
	springStrength = 0.01

	// damping is applied to velocities each step.
	damping = 0.9

	// minDistance floors pair distances to avoid division by zero.
	minDistance = 1.0
)

// forceDirected runs a spring-electrical simulation: inverse-square
// repulsion between all pairs, Hooke attraction along edges, damped
// velocity integration.
//
// A node whose incoming position is exactly (0,0) is treated as unseeded
// and given a uniformly random start inside the cfg bounding box; a node
// legitimately parked at the origin is reseeded along with it. Results are
// deterministic for a given cfg.Seed and input order.
func forceDirected(nodes []*story.Node, edges []story.Edge, cfg Config) map[string]Point {
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))

	pos := make(map[string]Point, len(nodes))
	vel := make(map[string]Point, len(nodes))
	for _, n := range nodes {
		p := Point{X: n.Position.X, Y: n.Position.Y}
		if p.X == 0 && p.Y == 0 {
			p = Point{X: rng.Float64() * cfg.Width, Y: rng.Float64() * cfg.Height}
		}
		pos[n.ID] = p
	}

	for range forceIterations {
		force := make(map[string]Point, len(nodes))

		// All-pairs repulsion.
		for i, a := range nodes {
			for _, b := range nodes[i+1:] {
				pa, pb := pos[a.ID], pos[b.ID]
				dx := pb.X - pa.X
				dy := pb.Y - pa.Y
				d := math.Hypot(dx, dy)
				if d < minDistance {
					d = minDistance
				}
				f := repulsionStrength / (d * d)
				fx := f * dx / d
				fy := f * dy / d

				fa := force[a.ID]
				fa.X -= fx
				fa.Y -= fy
				force[a.ID] = fa

				fb := force[b.ID]
				fb.X += fx
				fb.Y += fy
				force[b.ID] = fb
			}
		}

		// Edge attraction toward the natural spring length.
		for _, e := range edges {
			pa, okA := pos[e.Source]
			pb, okB := pos[e.Target]
			if !okA || !okB {
				continue
			}
			dx := pb.X - pa.X
			dy := pb.Y - pa.Y
			d := math.Hypot(dx, dy)
			if d < minDistance {
				d = minDistance
			}
			f := (d - springLength) * springStrength
			fx := f * dx / d
			fy := f * dy / d

			fa := force[e.Source]
			fa.X += fx
			fa.Y += fy
			force[e.Source] = fa

			fb := force[e.Target]
			fb.X -= fx
			fb.Y -= fy
			force[e.Target] = fb
		}

		// Integrate velocity, damp, update position.
		for _, n := range nodes {
			v := vel[n.ID]
			f := force[n.ID]
			v.X = (v.X + f.X) * damping
			v.Y = (v.Y + f.Y) * damping
			vel[n.ID] = v

			p := pos[n.ID]
			p.X += v.X
			p.Y += v.Y
			pos[n.ID] = p
		}
	}

	return pos
}
