// Package story implements the core narrative graph model: story nodes
// connected by typed, directed relationships, with a single-selection
// cursor and directional nearest-neighbor re-selection.
//
// # Model
//
// A [Graph] owns three things:
//
//   - Nodes: story units (scenes, chapters, choices, endings, notes) with
//     graph-space positions. Positions belong to the model's coordinate
//     system, not to any rendering surface.
//   - Edges: directed relationships between two distinct nodes, typed as
//     causal, temporal, or parallel. Edges are owned by the graph, never by
//     nodes; removing a node cascades to every edge touching it.
//   - Selection: at most one selected node ID.
//
// # Invariants
//
// AddEdge rejects self-loops and direction-specific duplicates. The
// duplicate check is asymmetric: A→B and B→A are distinct relationships
// and may coexist. Invalid topology requests are reported as sentinel
// errors that callers may discard - the observable effect is simply that
// no state changed.
//
// # Directional selection
//
// [Graph.SelectDirectional] moves the selection using the shared
// [NearestInDirection] candidate search: a node qualifies when it lies more
// than 50 units away along the direction's primary axis and its off-axis
// drift is smaller than its on-axis distance, and candidates are ranked by
// primary distance plus half the absolute secondary distance.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. All operations are expected
// to run on a single interaction goroutine; wrap the graph in an external
// lock if that ever changes.
package story
