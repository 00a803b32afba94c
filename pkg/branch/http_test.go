package branch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

func TestHTTPServiceCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/branches" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.SourceNodeID != "node-1" || req.ParentBranchID != "main" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(createResponse{
			BranchID: "b1",
			Lineage:  []string{"main", "b1"},
		})
	}))
	defer srv.Close()

	svc := NewHTTPService(srv.URL, nil)
	res, err := svc.Create(context.Background(), "node-1", "Alt", "main")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.BranchID != "b1" || !slices.Equal(res.Lineage, []string{"main", "b1"}) {
		t.Errorf("result = %+v", res)
	}
}

func TestHTTPServiceRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewHTTPService(srv.URL, nil)
	if err := svc.Archive(context.Background(), "b1", "cleanup"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", calls)
	}
}

func TestHTTPServiceClientErrorFailsFast(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewHTTPService(srv.URL, nil)
	if err := svc.Merge(context.Background(), "b1", "main"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not retry)", calls)
	}
}

func TestHTTPServiceImpactPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/impact/node-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(impactResponse{
			DescendantCount: 7,
			DivergenceScore: 0.35,
			Summary:         "two chapters affected",
		})
	}))
	defer srv.Close()

	svc := NewHTTPService(srv.URL, nil)
	est, err := svc.ImpactPreview(context.Background(), "node-1")
	if err != nil {
		t.Fatalf("ImpactPreview: %v", err)
	}
	if est.DescendantCount != 7 || est.DivergenceScore != 0.35 {
		t.Errorf("estimate = %+v", est)
	}
}
