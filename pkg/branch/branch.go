// Package branch manages the lifecycle and lineage of story branches.
//
// A branch is an alternate timeline forked from a specific story node, with
// a lineage chain back to the root branch. The [Manager] owns the local
// branch records and mediates every mutation through a collaborating
// [Service] (typically remote). Mutations are applied optimistically: the
// local record changes before the collaborator confirms, and each record's
// [SyncState] tracks whether the collaborator has seen it - a failed remote
// write is surfaced as [SyncFailed] together with the returned error, never
// silently rolled back.
package branch

import (
	"fmt"
	"time"
)

// Status is a branch's lifecycle state. Transitions are one-directional:
// active→archived and active→merged, with no way back.
type Status int

const (
	// StatusActive means the branch accepts edits.
	StatusActive Status = iota
	// StatusArchived means the branch was retired. Terminal.
	StatusArchived
	// StatusMerged means the branch was merged into another. Terminal.
	StatusMerged
)

// String returns the canonical name of the status.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusArchived:
		return "archived"
	case StatusMerged:
		return "merged"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusArchived || s == StatusMerged
}

// SyncState tracks whether the collaborator has confirmed the most recent
// local mutation of a branch record.
type SyncState int

const (
	// SyncPending means a collaborator write is in flight or not yet made.
	SyncPending SyncState = iota
	// SyncConfirmed means the collaborator acknowledged the local state.
	SyncConfirmed
	// SyncFailed means the collaborator rejected or never received the
	// local state; local and remote have diverged.
	SyncFailed
)

// String returns the canonical name of the sync state.
func (s SyncState) String() string {
	switch s {
	case SyncPending:
		return "pending"
	case SyncConfirmed:
		return "confirmed"
	case SyncFailed:
		return "failed"
	default:
		return fmt.Sprintf("sync(%d)", int(s))
	}
}

// Branch is an alternate timeline forked from a story node.
type Branch struct {
	ID           string    // Unique branch identifier
	ParentID     string    // Parent branch, empty only for the root
	SourceNodeID string    // Node the branch forked from, empty for the root
	Label        string    // Display label
	Status       Status    // Lifecycle state
	Sync         SyncState // Collaborator confirmation state
	Lineage      []string  // Branch IDs from root to self, root first
	CreatedAt    time.Time
}

// ImpactEstimate describes how much downstream content a branching edit
// would touch. Estimates are produced by the collaborator, never locally.
type ImpactEstimate struct {
	DescendantCount int     // Story nodes downstream of the edit point
	DivergenceScore float64 // 0-1 share of content expected to change
	Summary         string  // Human-readable description
}
