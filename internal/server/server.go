// Package server provides the HTTP API for HireFlow.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/indexer"
	"github.com/hireflow/hireflow/internal/llm"
	"github.com/hireflow/hireflow/internal/report"
	"github.com/hireflow/hireflow/internal/search"
	"github.com/hireflow/hireflow/internal/storage"
)

// Server is the HTTP server for the HireFlow API.
type Server struct {
	engine    *search.Engine
	indexer   *indexer.Indexer
	storage   storage.Storage
	generator llm.Generator
	report    *report.Builder
	sessions  *sessionStore
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. generator may
// be nil; then chat sessions and detailed evaluation respond 501.
func NewServer(
	engine *search.Engine,
	idx *indexer.Indexer,
	store storage.Storage,
	generator llm.Generator,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    engine,
		indexer:   idx,
		storage:   store,
		generator: generator,
		report:    report.NewBuilder(generator, cfg.Chat.EvaluationTokenBudget).WithThreshold(cfg.Search.SimilarityThreshold),
		sessions:  newSessionStore(),
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/rank", s.handleRank)
	r.Get("/api/v1/keywords", s.handleKeywords)
	r.Post("/api/v1/evaluate", s.handleEvaluate)

	r.Post("/api/v1/documents", s.handleIngestDocument)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)

	r.Post("/api/v1/sessions", s.handleCreateSession)
	r.Get("/api/v1/sessions/{id}", s.handleGetSession)
	r.Post("/api/v1/sessions/{id}/messages", s.handleSessionMessage)
	r.Delete("/api/v1/sessions/{id}", s.handleEndSession)

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
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
