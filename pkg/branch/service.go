package branch

import "context"

// CreateResult is the collaborator's reply to a branch-creation request.
type CreateResult struct {
	BranchID string   // Identifier assigned to the new branch
	Lineage  []string // Parent lineage with the new ID appended, root first
}

// Service is the collaborator contract the manager mediates through.
// The transport is out of scope here: implementations may be in-memory
// ([NewMemoryService]), HTTP-backed ([NewHTTPService]), or anything else
// honoring these semantics. Every call takes a context; none of the
// operations are cancellable once the collaborator has accepted them.
type Service interface {
	// Create requests a new branch forked at sourceNodeID under
	// parentBranchID and returns its assigned ID and lineage.
	Create(ctx context.Context, sourceNodeID, label, parentBranchID string) (CreateResult, error)

	// Archive requests archival of a branch.
	Archive(ctx context.Context, branchID, reason string) error

	// Merge requests that sourceBranchID be merged into targetBranchID.
	// Node and edge absorption is entirely the collaborator's concern.
	Merge(ctx context.Context, sourceBranchID, targetBranchID string) error

	// ImpactPreview estimates the downstream impact of branching at the
	// given node.
	ImpactPreview(ctx context.Context, nodeID string) (ImpactEstimate, error)
}
