// Package interaction turns pointer gestures into new story edges.
//
// The package implements the edge-creation state machine: Idle → Creating →
// Idle. A session begins on a gesture over a source node, tracks the cursor
// in graph-space (screen coordinates divided by the zoom factor - a
// transform owned by the rendering surface, not by this package), snaps to
// candidate targets within a fixed radius, and on completion appends an
// edge to the graph. Releasing with no candidate is not an error; the
// session simply resets with no edge created and no signal raised.
//
// At most one session exists at a time. Starting a new session while one is
// live is an implicit cancel of the previous one. The controller shares the
// single-interaction-goroutine model of [story.Graph]; it is not safe for
// concurrent use.
package interaction

import (
	"math"

	"github.com/google/uuid"

	"github.com/storyloom/storyloom/pkg/story"
)

// SnapRadius is the graph-space distance within which the cursor is
// considered "over" a node during edge creation.
const SnapRadius = 40.0

// State identifies the controller's position in the session lifecycle.
type State int

const (
	// Idle means no edge-creation session exists.
	Idle State = iota
	// Creating means a session is live and tracking the cursor.
	Creating
)

// Session is the transient state of a live edge-creation gesture.
type Session struct {
	SourceID    string         // Node the gesture started on
	Cursor      story.Position // Current cursor position in graph-space
	CandidateID string         // Snap target, empty when none is in range
}

// Defaults carries the caller's default attributes for created edges.
type Defaults struct {
	Type  story.EdgeType
	Style story.EdgeStyle
	Color string
}

// Controller is the edge-creation state machine. It reads the graph to find
// snap targets and, on successful completion, appends an edge to it.
type Controller struct {
	graph    *story.Graph
	defaults Defaults
	session  *Session
	newID    func() string
}

// NewController creates a controller bound to the given graph. Edges created
// by Complete use the given defaults and a generated UUID.
func NewController(g *story.Graph, defaults Defaults) *Controller {
	return &Controller{
		graph:    g,
		defaults: defaults,
		newID:    uuid.NewString,
	}
}

// State returns Idle or Creating.
func (c *Controller) State() State {
	if c.session == nil {
		return Idle
	}
	return Creating
}

// Session returns a copy of the live session and true, or a zero Session and
// false when idle. The copy is safe to retain; it does not track updates.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Start begins an edge-creation session from the given source node. Any live
// session is implicitly cancelled first, so two sessions never overlap. The
// cursor resets to the origin and the candidate target is cleared. Starting
// from an unknown node is a no-op.
func (c *Controller) Start(sourceID string) {
	c.session = nil
	if _, ok := c.graph.Node(sourceID); !ok {
		return
	}
	c.session = &Session{SourceID: sourceID}
}

// UpdatePosition moves the session cursor to the given graph-space
// coordinates and recomputes the candidate target: the first node in
// iteration order whose center is within [SnapRadius] of the cursor and
// which is not the source. No-op when idle.
func (c *Controller) UpdatePosition(x, y float64) {
	if c.session == nil {
		return
	}
	c.session.Cursor = story.Position{X: x, Y: y}
	c.session.CandidateID = ""

	for _, n := range c.graph.Nodes() {
		if n.ID == c.session.SourceID {
			continue
		}
		if math.Hypot(n.Position.X-x, n.Position.Y-y) <= SnapRadius {
			c.session.CandidateID = n.ID
			return
		}
	}
}

// Complete ends the session. If a candidate target exists, differs from the
// source, and no edge already runs source→candidate, a new edge with the
// controller's defaults is appended to the graph and returned with ok=true.
// In every other case nothing is created and ok is false - releasing out of
// range is not an error. The controller is Idle afterwards either way.
func (c *Controller) Complete() (story.Edge, bool) {
	s := c.session
	c.session = nil
	if s == nil || s.CandidateID == "" || s.CandidateID == s.SourceID {
		return story.Edge{}, false
	}
	if c.graph.HasEdge(s.SourceID, s.CandidateID) {
		return story.Edge{}, false
	}

	e := story.Edge{
		ID:     c.newID(),
		Source: s.SourceID,
		Target: s.CandidateID,
		Type:   c.defaults.Type,
		Style:  c.defaults.Style,
		Color:  c.defaults.Color,
	}
	if err := c.graph.AddEdge(e); err != nil {
		return story.Edge{}, false
	}
	return e, true
}

// Cancel discards any live session and returns the controller to Idle.
// Safe to call in any state. Wire this to the escape key or to externally
// observed abort events.
func (c *Controller) Cancel() { c.session = nil }
