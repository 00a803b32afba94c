package branch

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// MemoryService is an in-process [Service] for standalone use and tests.
// It assigns UUID branch IDs and tracks lineages itself; impact previews
// come from a pluggable estimator.
type MemoryService struct {
	rootID   string
	lineages map[string][]string

	// Estimator produces impact previews. Defaults to a zero estimate.
	Estimator func(nodeID string) ImpactEstimate

	// NewID generates branch IDs. Defaults to UUIDs; tests may pin it.
	NewID func() string
}

// NewMemoryService creates a memory service rooted at rootID.
func NewMemoryService(rootID string) *MemoryService {
	return &MemoryService{
		rootID:   rootID,
		lineages: map[string][]string{rootID: {rootID}},
		NewID:    uuid.NewString,
	}
}

// Create assigns a new branch ID and extends the parent's lineage.
func (s *MemoryService) Create(_ context.Context, sourceNodeID, label, parentBranchID string) (CreateResult, error) {
	parent, ok := s.lineages[parentBranchID]
	if !ok {
		return CreateResult{}, fmt.Errorf("unknown parent branch %q", parentBranchID)
	}
	id := s.NewID()
	lineage := append(slices.Clone(parent), id)
	s.lineages[id] = lineage
	return CreateResult{BranchID: id, Lineage: slices.Clone(lineage)}, nil
}

// Archive accepts archival of any known branch.
func (s *MemoryService) Archive(_ context.Context, branchID, _ string) error {
	if _, ok := s.lineages[branchID]; !ok {
		return fmt.Errorf("unknown branch %q", branchID)
	}
	return nil
}

// Merge accepts merging between known branches.
func (s *MemoryService) Merge(_ context.Context, sourceBranchID, targetBranchID string) error {
	if _, ok := s.lineages[sourceBranchID]; !ok {
		return fmt.Errorf("unknown branch %q", sourceBranchID)
	}
	if _, ok := s.lineages[targetBranchID]; !ok {
		return fmt.Errorf("unknown branch %q", targetBranchID)
	}
	return nil
}

// ImpactPreview returns the estimator's estimate for the node.
func (s *MemoryService) ImpactPreview(_ context.Context, nodeID string) (ImpactEstimate, error) {
	if s.Estimator != nil {
		return s.Estimator(nodeID), nil
	}
	return ImpactEstimate{Summary: "no downstream changes estimated"}, nil
}

// Ensure MemoryService implements Service.
var _ Service = (*MemoryService)(nil)
