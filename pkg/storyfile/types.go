package storyfile

import (
	"fmt"
	"time"

	"github.com/storyloom/storyloom/pkg/branch"
	"github.com/storyloom/storyloom/pkg/story"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node type names.
const (
	TypeScene   = "scene"
	TypeChapter = "chapter"
	TypeChoice  = "choice"
	TypeEnding  = "ending"
	TypeNote    = "note"
)

// Edge type names.
const (
	EdgeCausal   = "causal"
	EdgeTemporal = "temporal"
	EdgeParallel = "parallel"
)

// Edge style names.
const (
	StyleSolid  = "solid"
	StyleDashed = "dashed"
	StyleDotted = "dotted"
)

// Branch status names.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusMerged   = "merged"
)

// =============================================================================
// Document - Story Graph Serialization
// =============================================================================

// Document is the canonical serialization format for story graphs.
// Used for files, API responses, and storage. The format is human-readable
// and designed for round-trip fidelity: import → edit → export → re-import
// produces identical results. Enumerated fields travel as their canonical
// string names so documents stay diffable and storable.
type Document struct {
	Nodes    []Node   `json:"nodes" bson:"nodes"`
	Edges    []Edge   `json:"edges" bson:"edges"`
	Branches []Branch `json:"branches,omitempty" bson:"branches,omitempty"`
	Selected string   `json:"selected,omitempty" bson:"selected,omitempty"`
}

// Node is the serialized form of a story node.
type Node struct {
	ID         string  `json:"id" bson:"id"`
	Label      string  `json:"label,omitempty" bson:"label,omitempty"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
	BranchID   string  `json:"branch_id,omitempty" bson:"branch_id,omitempty"`
	Importance float64 `json:"importance,omitempty" bson:"importance,omitempty"`
	Type       string  `json:"type,omitempty" bson:"type,omitempty"`
}

// Edge is the serialized form of a story edge.
type Edge struct {
	ID     string  `json:"id" bson:"id"`
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Type   string  `json:"type,omitempty" bson:"type,omitempty"`
	Style  string  `json:"style,omitempty" bson:"style,omitempty"`
	Color  string  `json:"color,omitempty" bson:"color,omitempty"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Branch is the serialized form of a branch record.
type Branch struct {
	ID           string    `json:"id" bson:"id"`
	ParentID     string    `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	SourceNodeID string    `json:"source_node_id,omitempty" bson:"source_node_id,omitempty"`
	Label        string    `json:"label,omitempty" bson:"label,omitempty"`
	Status       string    `json:"status" bson:"status"`
	Lineage      []string  `json:"lineage" bson:"lineage"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// FromGraph converts a story graph to its serialization format.
// Nodes and edges keep their insertion order.
func FromGraph(g *story.Graph) Document {
	nodes := g.Nodes()
	edges := g.Edges()

	doc := Document{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		doc.Nodes[i] = Node{
			ID:         n.ID,
			Label:      n.Label,
			X:          n.Position.X,
			Y:          n.Position.Y,
			BranchID:   n.BranchID,
			Importance: n.Importance,
			Type:       NodeTypeName(n.Type),
		}
	}
	for i, e := range edges {
		doc.Edges[i] = Edge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Type:   EdgeTypeName(e.Type),
			Style:  EdgeStyleName(e.Style),
			Color:  e.Color,
			Weight: e.Weight,
		}
	}
	if id, ok := g.SelectedID(); ok {
		doc.Selected = id
	}
	return doc
}

// ToGraph converts a Document to a story graph.
// Returns an error if the structure violates graph constraints (duplicate
// node IDs, self-loops, duplicate directed edges, unknown enum names).
func ToGraph(doc Document) (*story.Graph, error) {
	g := story.New()

	for _, nd := range doc.Nodes {
		typ, err := ParseNodeType(nd.Type)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}
		n := story.Node{
			ID:         nd.ID,
			Label:      nd.Label,
			Position:   story.Position{X: nd.X, Y: nd.Y},
			BranchID:   nd.BranchID,
			Importance: nd.Importance,
			Type:       typ,
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nd.ID, err)
		}
	}

	for _, ed := range doc.Edges {
		typ, err := ParseEdgeType(ed.Type)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", ed.ID, err)
		}
		style, err := ParseEdgeStyle(ed.Style)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", ed.ID, err)
		}
		e := story.Edge{
			ID:     ed.ID,
			Source: ed.Source,
			Target: ed.Target,
			Type:   typ,
			Style:  style,
			Color:  ed.Color,
			Weight: ed.Weight,
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ed.Source, ed.Target, err)
		}
	}

	if doc.Selected != "" {
		if err := g.Select(doc.Selected); err != nil {
			return nil, fmt.Errorf("select %s: %w", doc.Selected, err)
		}
	}
	return g, nil
}

// FromBranch converts a branch record to its serialization format.
func FromBranch(b *branch.Branch) Branch {
	return Branch{
		ID:           b.ID,
		ParentID:     b.ParentID,
		SourceNodeID: b.SourceNodeID,
		Label:        b.Label,
		Status:       StatusName(b.Status),
		Lineage:      b.Lineage,
		CreatedAt:    b.CreatedAt,
	}
}

// =============================================================================
// Enum ↔ Name Conversion
// =============================================================================

// NodeTypeName returns the canonical name for a node type.
func NodeTypeName(t story.NodeType) string {
	switch t {
	case story.NodeChapter:
		return TypeChapter
	case story.NodeChoice:
		return TypeChoice
	case story.NodeEnding:
		return TypeEnding
	case story.NodeNote:
		return TypeNote
	default:
		return TypeScene
	}
}

// ParseNodeType converts a node-type name to its enum. The empty string
// parses as scene, the default story unit.
func ParseNodeType(s string) (story.NodeType, error) {
	switch s {
	case TypeScene, "":
		return story.NodeScene, nil
	case TypeChapter:
		return story.NodeChapter, nil
	case TypeChoice:
		return story.NodeChoice, nil
	case TypeEnding:
		return story.NodeEnding, nil
	case TypeNote:
		return story.NodeNote, nil
	default:
		return 0, fmt.Errorf("invalid node type: %q", s)
	}
}

// EdgeTypeName returns the canonical name for an edge type.
func EdgeTypeName(t story.EdgeType) string {
	switch t {
	case story.EdgeTemporal:
		return EdgeTemporal
	case story.EdgeParallel:
		return EdgeParallel
	default:
		return EdgeCausal
	}
}

// ParseEdgeType converts an edge-type name to its enum. The empty string
// parses as causal, the default relationship.
func ParseEdgeType(s string) (story.EdgeType, error) {
	switch s {
	case EdgeCausal, "":
		return story.EdgeCausal, nil
	case EdgeTemporal:
		return story.EdgeTemporal, nil
	case EdgeParallel:
		return story.EdgeParallel, nil
	default:
		return 0, fmt.Errorf("invalid edge type: %q", s)
	}
}

// EdgeStyleName returns the canonical name for an edge style.
func EdgeStyleName(s story.EdgeStyle) string {
	switch s {
	case story.StyleDashed:
		return StyleDashed
	case story.StyleDotted:
		return StyleDotted
	default:
		return StyleSolid
	}
}

// ParseEdgeStyle converts an edge-style name to its enum. The empty string
// parses as solid.
func ParseEdgeStyle(s string) (story.EdgeStyle, error) {
	switch s {
	case StyleSolid, "":
		return story.StyleSolid, nil
	case StyleDashed:
		return story.StyleDashed, nil
	case StyleDotted:
		return story.StyleDotted, nil
	default:
		return 0, fmt.Errorf("invalid edge style: %q", s)
	}
}

// StatusName returns the canonical name for a branch status.
func StatusName(s branch.Status) string {
	switch s {
	case branch.StatusArchived:
		return StatusArchived
	case branch.StatusMerged:
		return StatusMerged
	default:
		return StatusActive
	}
}

// ParseStatus converts a status name to its enum.
func ParseStatus(s string) (branch.Status, error) {
	switch s {
	case StatusActive, "":
		return branch.StatusActive, nil
	case StatusArchived:
		return branch.StatusArchived, nil
	case StatusMerged:
		return branch.StatusMerged, nil
	default:
		return 0, fmt.Errorf("invalid branch status: %q", s)
	}
}
