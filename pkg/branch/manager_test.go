package branch

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// failingService fails selected operations and delegates the rest to a
// memory service.
type failingService struct {
	*MemoryService
	failCreate  bool
	failArchive bool
	failMerge   bool
	failImpact  bool
}

var errRemote = errors.New("remote unavailable")

func (s *failingService) Create(ctx context.Context, src, label, parent string) (CreateResult, error) {
	if s.failCreate {
		return CreateResult{}, errRemote
	}
	return s.MemoryService.Create(ctx, src, label, parent)
}

func (s *failingService) Archive(ctx context.Context, id, reason string) error {
	if s.failArchive {
		return errRemote
	}
	return s.MemoryService.Archive(ctx, id, reason)
}

func (s *failingService) Merge(ctx context.Context, src, dst string) error {
	if s.failMerge {
		return errRemote
	}
	return s.MemoryService.Merge(ctx, src, dst)
}

func (s *failingService) ImpactPreview(ctx context.Context, nodeID string) (ImpactEstimate, error) {
	if s.failImpact {
		return ImpactEstimate{}, errRemote
	}
	return s.MemoryService.ImpactPreview(ctx, nodeID)
}

func newTestManager(t *testing.T) (*Manager, *failingService) {
	t.Helper()
	svc := &failingService{MemoryService: NewMemoryService("main")}
	return NewManager(svc, "main", "Mainline", nil), svc
}

func TestCreateBranch(t *testing.T) {
	ctx := context.Background()

	t.Run("Lifecycle", func(t *testing.T) {
		m, _ := newTestManager(t)

		b, err := m.CreateBranch(ctx, "node-1", "Alt Ending", "main")
		if err != nil {
			t.Fatalf("CreateBranch: %v", err)
		}
		if b.Status != StatusActive {
			t.Errorf("status = %v, want active", b.Status)
		}
		if b.Sync != SyncConfirmed {
			t.Errorf("sync = %v, want confirmed", b.Sync)
		}
		want := []string{"main", b.ID}
		if !slices.Equal(b.Lineage, want) {
			t.Errorf("lineage = %v, want %v", b.Lineage, want)
		}
		if b.ParentID != "main" || b.SourceNodeID != "node-1" {
			t.Errorf("parent/source = %s/%s, want main/node-1", b.ParentID, b.SourceNodeID)
		}

		if err := m.ArchiveBranch(ctx, b.ID, "deprecated"); err != nil {
			t.Fatalf("ArchiveBranch: %v", err)
		}
		got, _ := m.Branch(b.ID)
		if got.Status != StatusArchived {
			t.Errorf("status = %v, want archived", got.Status)
		}

		// Archived is terminal: nothing transitions it back to active.
		if err := m.ArchiveBranch(ctx, b.ID, "again"); !errors.Is(err, ErrBranchTerminal) {
			t.Errorf("second archive = %v, want ErrBranchTerminal", err)
		}
		if err := m.MergeBranch(ctx, b.ID, "main"); !errors.Is(err, ErrBranchTerminal) {
			t.Errorf("merge of archived = %v, want ErrBranchTerminal", err)
		}
	})

	t.Run("EmptySourceNode", func(t *testing.T) {
		m, _ := newTestManager(t)
		if _, err := m.CreateBranch(ctx, "", "x", "main"); !errors.Is(err, ErrNoSourceNode) {
			t.Errorf("err = %v, want ErrNoSourceNode", err)
		}
		if len(m.Branches()) != 1 {
			t.Error("no branch should be created")
		}
	})

	t.Run("UnknownParent", func(t *testing.T) {
		m, _ := newTestManager(t)
		if _, err := m.CreateBranch(ctx, "node-1", "x", "ghost"); !errors.Is(err, ErrUnknownBranch) {
			t.Errorf("err = %v, want ErrUnknownBranch", err)
		}
	})

	t.Run("CollaboratorFailureLeavesNothing", func(t *testing.T) {
		m, svc := newTestManager(t)
		svc.failCreate = true
		if _, err := m.CreateBranch(ctx, "node-1", "x", "main"); !errors.Is(err, errRemote) {
			t.Errorf("err = %v, want errRemote", err)
		}
		if len(m.Branches()) != 1 {
			t.Error("failed create must not leave a local branch")
		}
	})

	t.Run("NestedLineage", func(t *testing.T) {
		m, _ := newTestManager(t)
		child, err := m.CreateBranch(ctx, "node-1", "child", "main")
		if err != nil {
			t.Fatal(err)
		}
		grand, err := m.CreateBranch(ctx, "node-2", "grandchild", child.ID)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"main", child.ID, grand.ID}
		if !slices.Equal(grand.Lineage, want) {
			t.Errorf("lineage = %v, want %v", grand.Lineage, want)
		}
		if !slices.Equal(m.Lineage(grand.ID), want) {
			t.Errorf("Lineage() = %v, want %v", m.Lineage(grand.ID), want)
		}
	})
}

func TestCreateBranchRejectsBadLineage(t *testing.T) {
	tests := []struct {
		name    string
		lineage func(id string) []string
	}{
		{name: "WrongRoot", lineage: func(id string) []string { return []string{"other", id} }},
		{name: "MissingSelf", lineage: func(id string) []string { return []string{"main"} }},
		{name: "WrongTail", lineage: func(id string) []string { return []string{"main", "stranger"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				create: func() (CreateResult, error) {
					return CreateResult{BranchID: "b1", Lineage: tt.lineage("b1")}, nil
				},
			}
			m := NewManager(svc, "main", "Mainline", nil)
			if _, err := m.CreateBranch(context.Background(), "n", "x", "main"); !errors.Is(err, ErrBadLineage) {
				t.Errorf("err = %v, want ErrBadLineage", err)
			}
		})
	}
}

// stubService lets tests script the collaborator's create reply.
type stubService struct {
	create func() (CreateResult, error)
}

func (s *stubService) Create(context.Context, string, string, string) (CreateResult, error) {
	return s.create()
}
func (s *stubService) Archive(context.Context, string, string) error { return nil }
func (s *stubService) Merge(context.Context, string, string) error   { return nil }
func (s *stubService) ImpactPreview(context.Context, string) (ImpactEstimate, error) {
	return ImpactEstimate{}, nil
}

func TestArchiveOptimisticSync(t *testing.T) {
	ctx := context.Background()
	m, svc := newTestManager(t)
	b, err := m.CreateBranch(ctx, "node-1", "x", "main")
	if err != nil {
		t.Fatal(err)
	}

	svc.failArchive = true
	if err := m.ArchiveBranch(ctx, b.ID, "cleanup"); !errors.Is(err, errRemote) {
		t.Fatalf("err = %v, want errRemote", err)
	}

	// Optimistic: the local status flips even though the collaborator
	// failed; the divergence is surfaced through the sync state.
	got, _ := m.Branch(b.ID)
	if got.Status != StatusArchived {
		t.Errorf("status = %v, want archived", got.Status)
	}
	if got.Sync != SyncFailed {
		t.Errorf("sync = %v, want failed", got.Sync)
	}
}

func TestMergeBranch(t *testing.T) {
	ctx := context.Background()

	t.Run("Confirmed", func(t *testing.T) {
		m, _ := newTestManager(t)
		b, _ := m.CreateBranch(ctx, "node-1", "x", "main")

		if err := m.MergeBranch(ctx, b.ID, "main"); err != nil {
			t.Fatalf("MergeBranch: %v", err)
		}
		got, _ := m.Branch(b.ID)
		if got.Status != StatusMerged || got.Sync != SyncConfirmed {
			t.Errorf("status/sync = %v/%v, want merged/confirmed", got.Status, got.Sync)
		}

		// The target is never inspected or mutated locally.
		root, _ := m.Branch("main")
		if root.Status != StatusActive {
			t.Errorf("target status = %v, want active", root.Status)
		}
	})

	t.Run("FailureSurfacesSync", func(t *testing.T) {
		m, svc := newTestManager(t)
		b, _ := m.CreateBranch(ctx, "node-1", "x", "main")

		svc.failMerge = true
		if err := m.MergeBranch(ctx, b.ID, "main"); !errors.Is(err, errRemote) {
			t.Fatalf("err = %v, want errRemote", err)
		}
		got, _ := m.Branch(b.ID)
		if got.Status != StatusMerged || got.Sync != SyncFailed {
			t.Errorf("status/sync = %v/%v, want merged/failed", got.Status, got.Sync)
		}
	})

	t.Run("UnknownSource", func(t *testing.T) {
		m, _ := newTestManager(t)
		if err := m.MergeBranch(ctx, "ghost", "main"); !errors.Is(err, ErrUnknownBranch) {
			t.Errorf("err = %v, want ErrUnknownBranch", err)
		}
	})
}

func TestPreviewImpact(t *testing.T) {
	ctx := context.Background()

	t.Run("FreshEstimateEveryCall", func(t *testing.T) {
		m, svc := newTestManager(t)
		calls := 0
		svc.Estimator = func(nodeID string) ImpactEstimate {
			calls++
			return ImpactEstimate{DescendantCount: calls, DivergenceScore: 0.4, Summary: "minor ripple"}
		}

		first := m.PreviewImpact(ctx, "node-1")
		second := m.PreviewImpact(ctx, "node-1")
		if first == nil || second == nil {
			t.Fatal("expected estimates")
		}
		// No cache: the collaborator is consulted on every call.
		if calls != 2 {
			t.Errorf("collaborator calls = %d, want 2", calls)
		}
		if second.DescendantCount != 2 {
			t.Errorf("second estimate = %+v, want the fresh one", second)
		}
	})

	t.Run("NilOnFailure", func(t *testing.T) {
		m, svc := newTestManager(t)
		svc.failImpact = true
		if est := m.PreviewImpact(ctx, "node-1"); est != nil {
			t.Errorf("estimate = %+v, want nil on failure", est)
		}
	})
}

func TestBranchesOrder(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	a, _ := m.CreateBranch(ctx, "n1", "a", "main")
	b, _ := m.CreateBranch(ctx, "n2", "b", "main")

	got := m.Branches()
	want := []string{"main", a.ID, b.ID}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, br := range got {
		if br.ID != want[i] {
			t.Errorf("Branches()[%d] = %s, want %s", i, br.ID, want[i])
		}
	}
}

func TestStatusStrings(t *testing.T) {
	if StatusActive.String() != "active" || StatusArchived.String() != "archived" || StatusMerged.String() != "merged" {
		t.Error("status names mismatch")
	}
	if StatusActive.Terminal() {
		t.Error("active must not be terminal")
	}
	if !StatusArchived.Terminal() || !StatusMerged.Terminal() {
		t.Error("archived and merged are terminal")
	}
}
