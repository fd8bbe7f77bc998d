// Package server provides the HTTP API for Kotae.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/answer"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/index"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/keyword"
	"github.com/hyperjump/kotae/internal/registry"
	"github.com/hyperjump/kotae/internal/retrieval"
)

// maxUploadBytes caps document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// Server is the HTTP server for the Kotae API.
type Server struct {
	retriever *retrieval.Retriever
	composer  *answer.Composer
	ingest    *ingest.Service
	registry  *registry.Registry
	keyword   *keyword.Index
	spell     *keyword.SpellChecker
	store     *index.Store
	embedder  embedding.Embedder
	generator answer.Generator
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// Deps bundles the components the server exposes over HTTP. Registry,
// keyword index, and spell checker may be nil; their endpoints then report
// not-implemented.
type Deps struct {
	Retriever *retrieval.Retriever
	Composer  *answer.Composer
	Ingest    *ingest.Service
	Registry  *registry.Registry
	Keyword   *keyword.Index
	Spell     *keyword.SpellChecker
	Store     *index.Store
	Embedder  embedding.Embedder
	Generator answer.Generator
}

// NewServer creates a server with the given dependencies.
func NewServer(deps Deps, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		retriever: deps.Retriever,
		composer:  deps.Composer,
		ingest:    deps.Ingest,
		registry:  deps.Registry,
		keyword:   deps.Keyword,
		spell:     deps.Spell,
		store:     deps.Store,
		embedder:  deps.Embedder,
		generator: deps.Generator,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/query", s.handleQuery)
	r.Post("/api/v1/documents", s.handleIngestDocument)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/search/keyword", s.handleKeywordSearch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
