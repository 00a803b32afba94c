package branch

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrNoSourceNode is returned by [Manager.CreateBranch] when the source
	// node ID is empty. Invalid topology requests leave no state change.
	ErrNoSourceNode = errors.New("branch requires a source node")

	// ErrUnknownBranch is returned when a branch ID is not known locally.
	ErrUnknownBranch = errors.New("unknown branch")

	// ErrBranchTerminal is returned when archiving or merging a branch that
	// is already archived or merged. Terminal states admit no further edits.
	ErrBranchTerminal = errors.New("branch is archived or merged")

	// ErrBadLineage is returned when the collaborator's lineage does not
	// start at the root branch or does not end with the new branch ID.
	ErrBadLineage = errors.New("collaborator returned malformed lineage")
)

// Manager owns the local branch records and their lineage, and mediates
// every mutation through the collaborating [Service].
//
// Mutations are optimistic: archive and merge update the local record
// before the collaborator call and record the outcome in the branch's
// [SyncState]. Creation is not optimistic - a failed create leaves no
// local record at all.
//
// Manager shares the single-interaction-goroutine model of the graph; it
// is not safe for concurrent use.
type Manager struct {
	svc      Service
	logger   *log.Logger
	branches map[string]*Branch
	order    []string // branch IDs in creation order, root first
	rootID   string
	now      func() time.Time
}

// NewManager creates a manager seeded with a root branch of the given ID.
// The root is active, confirmed, and its lineage is just itself. A nil
// logger discards all output.
func NewManager(svc Service, rootID, rootLabel string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	m := &Manager{
		svc:      svc,
		logger:   logger,
		branches: make(map[string]*Branch),
		rootID:   rootID,
		now:      time.Now,
	}
	m.branches[rootID] = &Branch{
		ID:        rootID,
		Label:     rootLabel,
		Status:    StatusActive,
		Sync:      SyncConfirmed,
		Lineage:   []string{rootID},
		CreatedAt: m.now(),
	}
	m.order = []string{rootID}
	return m
}

// RootID returns the root branch ID.
func (m *Manager) RootID() string { return m.rootID }

// Branch returns the branch with the given ID and true, or nil and false.
func (m *Manager) Branch(id string) (*Branch, bool) {
	b, ok := m.branches[id]
	return b, ok
}

// Branches returns all branches in creation order, root first.
func (m *Manager) Branches() []*Branch {
	out := make([]*Branch, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.branches[id])
	}
	return out
}

// Lineage returns the lineage of the given branch, or nil if unknown.
// The returned slice is a copy.
func (m *Manager) Lineage(id string) []string {
	b, ok := m.branches[id]
	if !ok {
		return nil
	}
	return slices.Clone(b.Lineage)
}

// CreateBranch forks a new branch at sourceNodeID under parentBranchID and
// returns the local record. The collaborator assigns the ID and lineage;
// the lineage must be the parent's lineage with the new ID appended and
// must begin at the root, otherwise the create is treated as failed. On
// any failure the operation is abandoned and no local branch exists.
func (m *Manager) CreateBranch(ctx context.Context, sourceNodeID, label, parentBranchID string) (*Branch, error) {
	if sourceNodeID == "" {
		return nil, ErrNoSourceNode
	}
	parent, ok := m.branches[parentBranchID]
	if !ok {
		return nil, ErrUnknownBranch
	}

	res, err := m.svc.Create(ctx, sourceNodeID, label, parentBranchID)
	if err != nil {
		m.logger.Error("branch create failed", "parent", parentBranchID, "err", err)
		return nil, err
	}
	if err := validateLineage(res, parent.Lineage, m.rootID); err != nil {
		m.logger.Error("branch create rejected", "branch", res.BranchID, "err", err)
		return nil, err
	}

	b := &Branch{
		ID:           res.BranchID,
		ParentID:     parentBranchID,
		SourceNodeID: sourceNodeID,
		Label:        label,
		Status:       StatusActive,
		Sync:         SyncConfirmed,
		Lineage:      slices.Clone(res.Lineage),
		CreatedAt:    m.now(),
	}
	m.branches[b.ID] = b
	m.order = append(m.order, b.ID)
	return b, nil
}

// ArchiveBranch retires a branch. The local record flips to archived
// immediately (optimistic); the collaborator outcome lands in Sync. There
// is no operation to reverse an archive.
func (m *Manager) ArchiveBranch(ctx context.Context, branchID, reason string) error {
	b, ok := m.branches[branchID]
	if !ok {
		return ErrUnknownBranch
	}
	if b.Status.Terminal() {
		return ErrBranchTerminal
	}

	b.Status = StatusArchived
	b.Sync = SyncPending
	if err := m.svc.Archive(ctx, branchID, reason); err != nil {
		b.Sync = SyncFailed
		m.logger.Error("branch archive not confirmed", "branch", branchID, "err", err)
		return err
	}
	b.Sync = SyncConfirmed
	return nil
}

// MergeBranch merges sourceBranchID into targetBranchID. Only the source's
// local record changes: it flips to merged (optimistic, Sync tracking the
// collaborator outcome). The target branch is not inspected or mutated
// locally - node and edge absorption is entirely delegated.
func (m *Manager) MergeBranch(ctx context.Context, sourceBranchID, targetBranchID string) error {
	b, ok := m.branches[sourceBranchID]
	if !ok {
		return ErrUnknownBranch
	}
	if b.Status.Terminal() {
		return ErrBranchTerminal
	}

	b.Status = StatusMerged
	b.Sync = SyncPending
	if err := m.svc.Merge(ctx, sourceBranchID, targetBranchID); err != nil {
		b.Sync = SyncFailed
		m.logger.Error("branch merge not confirmed", "branch", sourceBranchID, "target", targetBranchID, "err", err)
		return err
	}
	b.Sync = SyncConfirmed
	return nil
}

// PreviewImpact requests a fresh impact estimate for the given node. Every
// call reaches the collaborator - no local cache is consulted, and the
// previous estimate is the caller's to discard. Returns nil on failure.
func (m *Manager) PreviewImpact(ctx context.Context, nodeID string) *ImpactEstimate {
	est, err := m.svc.ImpactPreview(ctx, nodeID)
	if err != nil {
		m.logger.Warn("impact preview failed", "node", nodeID, "err", err)
		return nil
	}
	return &est
}

func validateLineage(res CreateResult, parentLineage []string, rootID string) error {
	if res.BranchID == "" || len(res.Lineage) != len(parentLineage)+1 {
		return ErrBadLineage
	}
	if res.Lineage[0] != rootID {
		return ErrBadLineage
	}
	if !slices.Equal(res.Lineage[:len(parentLineage)], parentLineage) {
		return ErrBadLineage
	}
	if res.Lineage[len(res.Lineage)-1] != res.BranchID {
		return ErrBadLineage
	}
	return nil
}
