// Package layout computes node coordinates from graph structure.
//
// The engine is a set of pure functions: [Compute] maps (nodes, edges,
// strategy, config) to a node-id → [Point] table and never mutates its
// inputs or performs I/O. Strategy selection and any animated interpolation
// between old and new coordinates are presentation concerns that live above
// this package; the contract ends at returning target coordinates.
//
// # Strategies
//
//   - [Hierarchical]: chunks each branch group's node order into levels of
//     three, levels advance along x (200 apart), nodes stack along y (100
//     apart, with a 50-per-level skew on multi-level groups), and branch
//     groups flow left-to-right separated by two level widths.
//   - [ForceDirected]: spring-electrical simulation - inverse-square
//     repulsion (500/d²), Hooke attraction along edges toward a natural
//     length of 100, velocity damping 0.9, a fixed 100 iterations. Cost is
//     O(n²) per iteration with no early exit, so large graphs belong on a
//     background worker. Nodes positioned at exactly (0,0) are treated as
//     unseeded and given a random start inside the configured bounding
//     box, deterministically under Config.Seed.
//   - [Circular]: one ring of radius 200 around (400,300), starting at the
//     top; with branch clustering, one concentric ring per branch.
//   - [Timeline]: stable sort by pre-layout x, then fixed 150-unit steps
//     from x=100, alternating between two y values.
package layout
