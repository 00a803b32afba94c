package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storyloom/storyloom/pkg/branch"
	"github.com/storyloom/storyloom/pkg/buildinfo"
	apperrors "github.com/storyloom/storyloom/pkg/errors"
	"github.com/storyloom/storyloom/pkg/layout"
	"github.com/storyloom/storyloom/pkg/pipeline"
	"github.com/storyloom/storyloom/pkg/store"
	"github.com/storyloom/storyloom/pkg/storyfile"
)

// =============================================================================
// Wire Types
// =============================================================================

type saveStoryRequest struct {
	Title    string             `json:"title"`
	Document storyfile.Document `json:"document"`
}

type layoutResponse struct {
	Positions map[string]layout.Point `json:"positions"`
	GraphHash string                  `json:"graph_hash"`
	NodeCount int                     `json:"node_count"`
	EdgeCount int                     `json:"edge_count"`
	Cached    bool                    `json:"cached"`
	LayoutMS  int64                   `json:"layout_ms"`
}

type createBranchRequest struct {
	SourceNodeID   string `json:"source_node_id"`
	Label          string `json:"label"`
	ParentBranchID string `json:"parent_branch_id"`
}

type createBranchResponse struct {
	BranchID string   `json:"branch_id"`
	Lineage  []string `json:"lineage"`
}

type archiveBranchRequest struct {
	Reason string `json:"reason"`
}

type mergeBranchRequest struct {
	TargetBranchID string `json:"target_branch_id"`
}

type impactPreviewResponse struct {
	DescendantCount int     `json:"descendant_count"`
	DivergenceScore float64 `json:"divergence_score"`
	Summary         string  `json:"summary"`
}

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// =============================================================================
// Story Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "list stories")
		return
	}
	s.respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSaveStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")

	var req saveStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "malformed request body")
		return
	}

	// Reject documents that violate graph constraints before storing.
	if _, err := storyfile.ToGraph(req.Document); err != nil {
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidDocument, apperrors.UserMessage(err))
		return
	}

	rec := store.StoryRecord{
		ID:        storyID,
		Title:     req.Title,
		Document:  req.Document,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("save story failed", "story", storyID, "err", err)
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "save story")
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")
	rec, err := s.store.Load(r.Context(), storyID)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, apperrors.ErrCodeStoryNotFound, "story not found: "+storyID)
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "load story")
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")
	err := s.store.Delete(r.Context(), storyID)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, apperrors.ErrCodeStoryNotFound, "story not found: "+storyID)
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "delete story")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComputeLayout(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")

	var opts pipeline.Options
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "malformed request body")
			return
		}
	}
	if opts.Strategy != "" {
		if err := pipeline.ValidateStrategy(opts.Strategy); err != nil {
			s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidStrategy, apperrors.UserMessage(err))
			return
		}
	}

	rec, err := s.store.Load(r.Context(), storyID)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, apperrors.ErrCodeStoryNotFound, "story not found: "+storyID)
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "load story")
		return
	}

	g, err := storyfile.ToGraph(rec.Document)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInvalidDocument, apperrors.UserMessage(err))
		return
	}

	res, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.logger.Error("layout failed", "story", storyID, "err", err)
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "layout computation")
		return
	}

	s.respondJSON(w, http.StatusOK, layoutResponse{
		Positions: res.Positions,
		GraphHash: res.GraphHash,
		NodeCount: res.Stats.NodeCount,
		EdgeCount: res.Stats.EdgeCount,
		Cached:    res.CacheInfo.LayoutHit,
		LayoutMS:  res.Stats.LayoutTime.Milliseconds(),
	})
}

// =============================================================================
// Branch Handlers
// =============================================================================

func (s *Server) handleListBranches(w http.ResponseWriter, r *http.Request) {
	branches := s.branches.Branches()
	out := make([]storyfile.Branch, len(branches))
	for i, b := range branches {
		out[i] = storyfile.FromBranch(b)
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	var req createBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "malformed request body")
		return
	}

	b, err := s.branches.CreateBranch(r.Context(), req.SourceNodeID, req.Label, req.ParentBranchID)
	if err != nil {
		s.respondBranchError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, createBranchResponse{
		BranchID: b.ID,
		Lineage:  b.Lineage,
	})
}

func (s *Server) handleArchiveBranch(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "branchID")

	var req archiveBranchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "malformed request body")
			return
		}
	}

	if err := s.branches.ArchiveBranch(r.Context(), branchID, req.Reason); err != nil {
		s.respondBranchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMergeBranch(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "branchID")

	var req mergeBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "malformed request body")
		return
	}
	if req.TargetBranchID == "" {
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "target_branch_id is required")
		return
	}

	if err := s.branches.MergeBranch(r.Context(), branchID, req.TargetBranchID); err != nil {
		s.respondBranchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImpactPreview(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	est := s.branches.PreviewImpact(r.Context(), nodeID)
	if est == nil {
		s.respondError(w, http.StatusBadGateway, apperrors.ErrCodeNetwork, "impact estimate unavailable")
		return
	}
	s.respondJSON(w, http.StatusOK, impactPreviewResponse{
		DescendantCount: est.DescendantCount,
		DivergenceScore: est.DivergenceScore,
		Summary:         est.Summary,
	})
}

// respondBranchError maps branch manager errors to HTTP status codes.
func (s *Server) respondBranchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, branch.ErrNoSourceNode):
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidBranch, apperrors.UserMessage(err))
	case errors.Is(err, branch.ErrBadLineage):
		s.respondError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidBranch, apperrors.UserMessage(err))
	case errors.Is(err, branch.ErrUnknownBranch):
		s.respondError(w, http.StatusNotFound, apperrors.ErrCodeBranchNotFound, apperrors.UserMessage(err))
	case errors.Is(err, branch.ErrBranchTerminal):
		s.respondError(w, http.StatusConflict, apperrors.ErrCodeBranchTerminal, apperrors.UserMessage(err))
	default:
		s.logger.Error("branch operation failed", "err", err)
		s.respondError(w, http.StatusBadGateway, apperrors.ErrCodeNetwork, apperrors.UserMessage(err))
	}
}

// =============================================================================
// Response Helpers
// =============================================================================

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response failed", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code apperrors.Code, msg string) {
	s.respondJSON(w, status, errorResponse{Code: code, Message: msg})
}
