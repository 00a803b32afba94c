package story

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by operations that reference a node ID not
	// present in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when Source and Target are
	// the same node. Story relationships never point at themselves.
	ErrSelfLoop = errors.New("edge source and target must differ")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge with the
	// same Source and Target already exists. The check is direction-specific:
	// the reverse edge is a distinct relationship and is not rejected.
	ErrDuplicateEdge = errors.New("duplicate directed edge")
)

// Position is a point in graph-space coordinates. Graph-space is the model's
// own coordinate system, independent of any rendering surface's zoom or pan.
type Position struct {
	X float64
	Y float64
}

// NodeType classifies the story unit a node represents.
type NodeType int

const (
	// NodeScene is a single scene, the default story unit.
	NodeScene NodeType = iota
	// NodeChapter groups scenes into a larger narrative unit.
	NodeChapter
	// NodeChoice is a decision point where the narrative can fork.
	NodeChoice
	// NodeEnding terminates a storyline.
	NodeEnding
	// NodeNote is an authorial annotation, not part of the narrative flow.
	NodeNote
)

// EdgeType classifies the relationship an edge expresses between two nodes.
type EdgeType int

const (
	// EdgeCausal means the source event causes the target event.
	EdgeCausal EdgeType = iota
	// EdgeTemporal means the target follows the source in time.
	EdgeTemporal
	// EdgeParallel means both storylines unfold simultaneously.
	EdgeParallel
)

// EdgeStyle selects the visual treatment a renderer applies to an edge.
// The model carries it so styles survive serialization round-trips.
type EdgeStyle int

const (
	// StyleSolid is a continuous line.
	StyleSolid EdgeStyle = iota
	// StyleDashed is a dashed line.
	StyleDashed
	// StyleDotted is a dotted line.
	StyleDotted
)

// Node represents a story unit with a position in graph-space.
// Nodes never own edges; edges live on the [Graph] and are removed when
// either endpoint is removed.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID         string   // Unique identifier
	Label      string   // Display label
	Position   Position // Graph-space coordinates, not screen pixels
	BranchID   string   // Owning branch
	Importance float64  // Narrative weight in [0,1]
	Type       NodeType // Story-unit kind
}

// Edge represents a directed, typed relationship between two story nodes.
// Source and Target must differ; a direction-specific duplicate (same
// Source and Target) is rejected by [Graph.AddEdge], but the reverse
// direction is allowed to coexist.
type Edge struct {
	ID     string    // Unique identifier
	Source string    // Source node ID
	Target string    // Target node ID
	Type   EdgeType  // Relationship kind
	Style  EdgeStyle // Visual treatment
	Color  string    // Optional color override
	Weight float64   // Optional relationship weight
}

// Graph owns the set of story nodes and edges and the current selection.
// It is an explicit state container: callers hold a reference and pass it
// to the components that need it, there is no ambient shared instance.
//
// The zero value is not usable - use New to create a valid Graph.
// Graph is not safe for concurrent use without external synchronization;
// all mutation is expected to happen on a single interaction goroutine.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	selected string // selected node ID, empty when nothing is selected
}

// New creates an empty story graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. Insertion order is preserved
// and observable through [Graph.Nodes].
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[node.ID] = &node
	g.order = append(g.order, node.ID)
	return nil
}

// RemoveNode removes a node and every edge that references it as source or
// target (cascading delete). If the node was selected, the selection is
// cleared. Returns ErrUnknownNode if the node does not exist.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownNode
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	if g.selected == id {
		g.selected = ""
	}
	return nil
}

// UpdateNodePosition moves a node to the given graph-space coordinates.
// No bounds checking is performed - out-of-range coordinates are accepted.
// Returns ErrUnknownNode if the node does not exist.
func (g *Graph) UpdateNodePosition(id string, x, y float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Position = Position{X: x, Y: y}
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for missing
// endpoints, ErrSelfLoop when both endpoints are the same node, and
// ErrDuplicateEdge when an edge with identical Source and Target already
// exists. The duplicate check is deliberately asymmetric: an existing A→B
// does not block B→A.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Source == e.Target {
		return ErrSelfLoop
	}
	if g.HasEdge(e.Source, e.Target) {
		return ErrDuplicateEdge
	}
	g.edges = append(g.edges, e)
	return nil
}

// RemoveEdge removes the edge source→target if it exists.
// No error is returned if the edge does not exist.
func (g *Graph) RemoveEdge(source, target string) {
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
}

// HasEdge reports whether an edge exists from source to target.
// Direction matters: HasEdge("a", "b") does not imply HasEdge("b", "a").
func (g *Graph) HasEdge(source, target string) bool {
	for _, e := range g.edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node in the graph, so
// modifications affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
// The returned slice contains pointers to the actual node structs.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
// Modifications to the returned slice do not affect the graph.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Select makes the given node the current selection.
// Returns ErrUnknownNode if the node does not exist.
func (g *Graph) Select(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownNode
	}
	g.selected = id
	return nil
}

// SelectedID returns the ID of the selected node and true, or "" and false
// when nothing is selected.
func (g *Graph) SelectedID() (string, bool) {
	return g.selected, g.selected != ""
}

// ClearSelection deselects any selected node.
func (g *Graph) ClearSelection() { g.selected = "" }

// SelectDirectional moves the selection to the nearest node in the given
// direction and reports whether the selection changed.
//
// When nothing is selected, the first node in insertion order becomes the
// selection. Otherwise the candidate search of [NearestInDirection] runs
// against every other node; if no node qualifies the selection is unchanged.
func (g *Graph) SelectDirectional(dir Direction) bool {
	if g.selected == "" {
		if len(g.order) == 0 {
			return false
		}
		g.selected = g.order[0]
		return true
	}
	from := g.nodes[g.selected]
	next := NearestInDirection(g.Nodes(), from, dir)
	if next == nil {
		return false
	}
	g.selected = next.ID
	return true
}
