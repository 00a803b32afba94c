package branch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/storyloom/storyloom/pkg/httputil"
)

// HTTPService is a [Service] backed by a remote branch API.
// Transient failures (network errors, 5xx responses) are retried with
// exponential backoff; 4xx responses fail immediately.
type HTTPService struct {
	baseURL string
	client  *http.Client
}

// NewHTTPService creates an HTTP-backed service for the given base URL
// (e.g. "https://api.example.com"). A nil client uses a 10-second timeout.
func NewHTTPService(baseURL string, client *http.Client) *HTTPService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPService{baseURL: baseURL, client: client}
}

type createRequest struct {
	SourceNodeID   string `json:"source_node_id"`
	Label          string `json:"label"`
	ParentBranchID string `json:"parent_branch_id"`
}

type createResponse struct {
	BranchID string   `json:"branch_id"`
	Lineage  []string `json:"lineage"`
}

type archiveRequest struct {
	Reason string `json:"reason"`
}

type mergeRequest struct {
	TargetBranchID string `json:"target_branch_id"`
}

type impactResponse struct {
	DescendantCount int     `json:"descendant_count"`
	DivergenceScore float64 `json:"divergence_score"`
	Summary         string  `json:"summary"`
}

// Create requests a new branch from the remote API.
func (s *HTTPService) Create(ctx context.Context, sourceNodeID, label, parentBranchID string) (CreateResult, error) {
	req := createRequest{SourceNodeID: sourceNodeID, Label: label, ParentBranchID: parentBranchID}
	var resp createResponse
	if err := s.do(ctx, http.MethodPost, "/branches", req, &resp); err != nil {
		return CreateResult{}, err
	}
	return CreateResult{BranchID: resp.BranchID, Lineage: resp.Lineage}, nil
}

// Archive requests archival of a branch.
func (s *HTTPService) Archive(ctx context.Context, branchID, reason string) error {
	path := "/branches/" + url.PathEscape(branchID) + "/archive"
	return s.do(ctx, http.MethodPost, path, archiveRequest{Reason: reason}, nil)
}

// Merge requests that sourceBranchID be merged into targetBranchID.
func (s *HTTPService) Merge(ctx context.Context, sourceBranchID, targetBranchID string) error {
	path := "/branches/" + url.PathEscape(sourceBranchID) + "/merge"
	return s.do(ctx, http.MethodPost, path, mergeRequest{TargetBranchID: targetBranchID}, nil)
}

// ImpactPreview fetches a fresh impact estimate for the node.
func (s *HTTPService) ImpactPreview(ctx context.Context, nodeID string) (ImpactEstimate, error) {
	path := "/impact/" + url.PathEscape(nodeID)
	var resp impactResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return ImpactEstimate{}, err
	}
	return ImpactEstimate{
		DescendantCount: resp.DescendantCount,
		DivergenceScore: resp.DivergenceScore,
		Summary:         resp.Summary,
	}, nil
}

// do performs one API call with retry. body and out may be nil.
func (s *HTTPService) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	return httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return httputil.Retryable(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return httputil.Retryable(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
		case resp.StatusCode >= 400:
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	})
}

// Ensure HTTPService implements Service.
var _ Service = (*HTTPService)(nil)
