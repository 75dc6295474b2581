package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/akngest/internal/config"
	"github.com/dgallion1/akngest/internal/pathstore"
	"github.com/dgallion1/akngest/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Catalog reads and removes published statements.
type Catalog interface {
	GetNode(ctx context.Context, key string) (*pathstore.NodeResponse, error)
	ListChildren(ctx context.Context, key string, limit int) ([]pathstore.ListChildrenResponse, error)
	DeleteNode(ctx context.Context, key string, recursive bool) error
}

// Server is the HTTP API server for akngest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	catalog      Catalog
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. catalog is nil when
// publishing is disabled.
func NewServer(orch *pipeline.Orchestrator, catalog Catalog, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		catalog:      catalog,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/convert/batch", s.handleBatchConvert)

		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/akn", s.handleCollectionXML)
		r.Get("/api/jobs/{jobID}/documents/{docID}", s.handleDocumentXML)
		r.Get("/api/jobs/{jobID}/preview", s.handlePreview)

		r.Get("/api/history", s.handleListRuns)
		r.Get("/api/history/{runID}", s.handleGetRun)
		r.Get("/api/stats", s.handleStats)

		r.Get("/api/published", s.handleListPublished)
		r.Get("/api/published/{docID}", s.handleGetPublished)
		r.Delete("/api/published/{docID}", s.handleDeletePublished)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
