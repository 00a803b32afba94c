// Package server exposes the story graph over HTTP.
//
// The API serves three concerns: story document CRUD backed by a
// [store.Store], layout computation through the shared [pipeline.Runner],
// and the branch lifecycle through a [branch.Manager]. The branch routes
// match the paths the branch.HTTPService client calls, so a CLI pointed at
// this server works without translation.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/storyloom/storyloom/pkg/branch"
	"github.com/storyloom/storyloom/pkg/pipeline"
	"github.com/storyloom/storyloom/pkg/store"
)

// Server wires the HTTP API together.
type Server struct {
	store    store.Store
	runner   *pipeline.Runner
	branches *branch.Manager
	logger   *log.Logger
}

// New creates a server. Nil collaborators get working defaults: an
// in-memory store, an uncached runner, and a branch manager rooted at
// "main" with an in-memory service.
func New(st store.Store, runner *pipeline.Runner, branches *branch.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger, nil)
	}
	if branches == nil {
		branches = branch.NewManager(branch.NewMemoryService("main"), "main", "Mainline", logger)
	}
	return &Server{
		store:    st,
		runner:   runner,
		branches: branches,
		logger:   logger,
	}
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/stories", func(r chi.Router) {
		r.Get("/", s.handleListStories)
		r.Put("/{storyID}", s.handleSaveStory)
		r.Get("/{storyID}", s.handleGetStory)
		r.Delete("/{storyID}", s.handleDeleteStory)
		r.Post("/{storyID}/layout", s.handleComputeLayout)
	})

	r.Route("/branches", func(r chi.Router) {
		r.Get("/", s.handleListBranches)
		r.Post("/", s.handleCreateBranch)
		r.Post("/{branchID}/archive", s.handleArchiveBranch)
		r.Post("/{branchID}/merge", s.handleMergeBranch)
	})

	r.Get("/impact/{nodeID}", s.handleImpactPreview)

	return r
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
