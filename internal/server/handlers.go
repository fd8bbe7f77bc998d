package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/answer"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/index"
	"github.com/hyperjump/kotae/internal/models"
)

// User-facing messages for the degraded query paths. Both are HTTP 200
// responses: an empty knowledge base and a missing generation backend are
// expected conditions, not server failures.
const (
	msgEmptyKnowledgeBase = "The knowledge base is empty. Please ingest documents before asking questions."
	msgNoGeneration       = "Answer generation is currently unavailable. The most relevant passages are listed as sources."
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("query request",
		zap.String("question", req.Question),
		zap.Int("top_k", req.TopK),
		zap.Bool("use_reranking", req.Rerank()))

	chunks, err := s.retriever.Search(r.Context(), req.Question, req.TopK, req.Rerank())
	switch {
	case err == nil:
	case errors.Is(err, index.ErrIndexNotFound):
		s.respondJSON(w, http.StatusOK, models.QueryResponse{
			Answer:  msgEmptyKnowledgeBase,
			Sources: []string{},
		})
		return
	case errors.Is(err, embedding.ErrUnavailable):
		s.logger.Error("query embedding unavailable", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, "no embedding backend is configured")
		return
	default:
		s.logger.Error("retrieval failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}

	sources := make([]string, len(chunks))
	for i, c := range chunks {
		sources[i] = c.Text
	}

	text, err := s.composer.Compose(r.Context(), req.Question, sources)
	if err != nil {
		if errors.Is(err, answer.ErrGenerationUnavailable) {
			s.respondJSON(w, http.StatusOK, models.QueryResponse{
				Answer:  msgNoGeneration,
				Sources: sources,
			})
			return
		}
		s.logger.Error("answer generation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "answer generation failed")
		return
	}

	s.respondJSON(w, http.StatusOK, models.QueryResponse{Answer: text, Sources: sources})
}

func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	name := filepath.Base(header.Filename)
	s.logger.Debug("ingest request", zap.String("filename", name), zap.Int("bytes", len(content)))

	result, err := s.ingest.IngestDocument(r.Context(), name, content, filepath.Ext(name))
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("ingestion failed", zap.String("filename", name), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		s.respondError(w, http.StatusNotImplemented, "document registry not enabled")
		return
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	docs, err := s.registry.List(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleKeywordSearch(w http.ResponseWriter, r *http.Request) {
	if s.keyword == nil {
		s.respondError(w, http.StatusNotImplemented, "keyword index not enabled")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}

	hits, err := s.keyword.Search(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("keyword search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "keyword search failed")
		return
	}

	resp := map[string]any{"query": query, "hits": hits}
	if len(hits) == 0 && s.spell != nil {
		// Refresh so suggestions see terms indexed since the last miss.
		if err := s.spell.RefreshCache(); err == nil {
			if suggestion := s.spell.SuggestQuery(query); suggestion != "" {
				resp["suggestion"] = suggestion
			}
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	chunkCount, err := s.store.Count()
	if err != nil {
		s.logger.Error("status: index count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "status unavailable")
		return
	}

	resp := map[string]any{
		"chunks": chunkCount,
	}
	if s.registry != nil {
		if docCount, err := s.registry.Count(r.Context()); err == nil {
			resp["documents"] = docCount
		}
	}
	if s.keyword != nil {
		if kwCount, err := s.keyword.Count(); err == nil {
			resp["keyword_chunks"] = kwCount
		}
	}

	configInfo := map[string]any{
		"vector_path":   s.store.VectorPath(),
		"metadata_path": s.store.MetadataPath(),
	}
	if s.embedder != nil {
		configInfo["embedding_backend"] = s.embedder.Name()
	}
	if s.generator != nil {
		configInfo["generation_backend"] = s.generator.Name()
	}
	if s.config != nil {
		configInfo["chunk_window"] = s.config.Chunking.Window
		configInfo["chunk_overlap"] = s.config.Chunking.Overlap
		configInfo["rerank_enabled"] = s.config.Rerank.EnabledOrDefault()
	}
	resp["config"] = configInfo
	resp["disk_usage_bytes"] = s.store.DiskUsageBytes()

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
