package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hireflow/hireflow/internal/chat"
	"github.com/hireflow/hireflow/internal/embedding"
	"github.com/hireflow/hireflow/internal/llm"
	"github.com/hireflow/hireflow/internal/models"
	"github.com/hireflow/hireflow/internal/storage"
)

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var query models.RankQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("rank request", zap.String("query", query.Query), zap.Int("top_n", query.TopN))
	response, err := s.engine.Rank(r.Context(), &query)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := s.engine.Keywords(r.Context(), q, limit)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"hits": hits, "total": len(hits)})
}

type evaluateRequest struct {
	models.RankQuery
	Detailed bool `json:"detailed,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	response, err := s.engine.Rank(r.Context(), &req.RankQuery)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	out := map[string]interface{}{
		"ranking": response,
		"summary": s.report.Summary(response),
	}
	if req.Detailed {
		if s.generator == nil {
			s.respondError(w, http.StatusNotImplemented, "no generator configured")
			return
		}
		evaluation, err := s.report.Evaluate(r.Context(), req.Query, response)
		if err != nil {
			s.respondDomainError(w, err)
			return
		}
		out["evaluation"] = evaluation
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ingest request", zap.String("id", input.ID), zap.String("source", input.Source))
	if err := s.indexer.IngestDocument(r.Context(), &input); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": input.ID, "status": "ingested"})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.storage.GetDocument(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.indexer.DeleteDocument(r.Context(), id); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type createSessionRequest struct {
	JobContext string `json:"job_context"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		s.respondError(w, http.StatusNotImplemented, "no generator configured")
		return
	}
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session := chat.NewSession(s.engine, s.generator, &s.config.Chat,
		chat.WithSessionLogger(s.logger))
	if err := session.Start(req.JobContext); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.sessions.add(session)
	s.logger.Debug("session created", zap.String("session_id", session.ID()))
	s.respondJSON(w, http.StatusCreated, map[string]string{
		"session_id": session.ID(),
		"state":      session.State().String(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": session.ID(),
		"state":      session.State().String(),
		"tokens":     session.TokenCount(),
		"turns":      session.History(),
	})
}

type sessionMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSessionMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	var req sessionMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reply, err := session.SubmitTurn(r.Context(), req.Text)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := s.sessions.get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	session.End()
	s.sessions.remove(id)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.storage.CountDocuments(ctx)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	chunkCount, err := s.storage.CountChunks(ctx)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents": docCount,
		"chunks":    chunkCount,
		"config": map[string]interface{}{
			"embedding_model":      s.config.Embedding.ModelName,
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"chunk_size":           s.config.Search.ChunkSize,
			"chunk_overlap":        s.config.Search.ChunkOverlap,
			"top_k_candidates":     s.config.Search.TopKCandidates,
			"top_n":                s.config.Search.TopN,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.VectorIndexPath,
		s.config.Storage.KeywordIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondDomainError maps domain errors onto HTTP status codes.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument), errors.Is(err, models.ErrEmptyInput):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chat.ErrSessionTerminated):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, llm.ErrGeneratorFailure), errors.Is(err, embedding.ErrEmbedderFailure):
		s.logger.Error("backend failure", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
