package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/decisionlab/unisearch/internal/domain"
	"github.com/decisionlab/unisearch/internal/domain/search/request"
	"github.com/decisionlab/unisearch/internal/domain/search/result"
	healthuc "github.com/decisionlab/unisearch/internal/usecase/health"
	ingestuc "github.com/decisionlab/unisearch/internal/usecase/ingest"
	searchuc "github.com/decisionlab/unisearch/internal/usecase/search"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest           = "bad_request"
	codeInvalidRequest       = "invalid_request"
	codeNotFound             = "not_found"
	codeEmbeddingUnavailable = "embedding_unavailable"
	codeInternalError        = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search and ingest services over HTTP.
type Server struct {
	search        *searchuc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		ingest: ingest,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeInvalidRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeEmbeddingUnavailable),
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/search/", s.Search)
	r.Put("/api/content/{type}/{id}", s.UpsertContent)
	r.Get("/api/content/{type}/{id}", s.GetContent)
	r.Delete("/api/content/{type}/{id}", s.DeleteContent)
	r.Get("/health", s.GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// searchRequest is the POST /api/search/ body. TopK and Threshold are
// pointers so an absent field and an explicit zero can be told apart.
type searchRequest struct {
	Query     string         `json:"query"`
	Context   *searchContext `json:"context,omitempty"`
	Types     []string       `json:"types,omitempty"`
	TopK      *int           `json:"top_k,omitempty"`
	Threshold *float64       `json:"threshold,omitempty"`
}

type searchContext struct {
	CaseID    string `json:"case_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

type searchResponse struct {
	Query      string       `json:"query"`
	InContext  []searchItem `json:"in_context"`
	Other      []searchItem `json:"other"`
	Recent     []searchItem `json:"recent"`
	TotalCount int          `json:"total_count"`
}

type searchItem struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle"`
	Score     float64        `json:"score"`
	CaseID    string         `json:"case_id,omitempty"`
	CaseTitle string         `json:"case_title,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Search handles POST /api/search/.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var sctx domain.SearchContext
	if req.Context != nil {
		sctx = domain.SearchContext{CaseID: req.Context.CaseID, ProjectID: req.Context.ProjectID}
	}

	types := make([]domain.ContentType, 0, len(req.Types))
	for _, raw := range req.Types {
		t, err := domain.ParseContentType(raw)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		types = append(types, t)
	}

	topK := 0
	if req.TopK != nil {
		topK = *req.TopK
	}
	threshold := request.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	q, err := request.New(req.Query, sctx, types, topK, threshold)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToDTO(res))
}

// upsertContentRequest is the PUT /api/content/{type}/{id} body.
type upsertContentRequest struct {
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Text      string         `json:"text"`
	CaseID    string         `json:"case_id,omitempty"`
	CaseTitle string         `json:"case_title,omitempty"`
	ProjectID string         `json:"project_id,omitempty"`
	ParentID  string         `json:"parent_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// UpsertContent handles PUT /api/content/{type}/{id}.
func (s *Server) UpsertContent(w http.ResponseWriter, r *http.Request) {
	typ, err := domain.ParseContentType(chi.URLParam(r, "type"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req upsertContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	entity := domain.Entity{
		ID:        chi.URLParam(r, "id"),
		Type:      typ,
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		Text:      req.Text,
		CaseID:    req.CaseID,
		CaseTitle: req.CaseTitle,
		ProjectID: req.ProjectID,
		ParentID:  req.ParentID,
		Metadata:  req.Metadata,
	}

	if err := s.ingest.Upsert(r.Context(), &entity); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": entity.ID, "type": string(typ)})
}

// GetContent handles GET /api/content/{type}/{id}.
func (s *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	typ, err := domain.ParseContentType(chi.URLParam(r, "type"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	cand, err := s.ingest.Get(r.Context(), typ, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchItem{
		ID:        cand.ID,
		Type:      string(cand.Type),
		Title:     cand.Title,
		Subtitle:  cand.Subtitle,
		CaseID:    cand.CaseID,
		CaseTitle: cand.CaseTitle,
		Metadata:  cand.Metadata,
	})
}

// DeleteContent handles DELETE /api/content/{type}/{id}.
func (s *Server) DeleteContent(w http.ResponseWriter, r *http.Request) {
	typ, err := domain.ParseContentType(chi.URLParam(r, "type"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if err := s.ingest.Delete(r.Context(), typ, chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func searchResponseToDTO(res result.Response) searchResponse {
	return searchResponse{
		Query:      res.Query,
		InContext:  itemsToDTO(res.InContext),
		Other:      itemsToDTO(res.Other),
		Recent:     itemsToDTO(res.Recent),
		TotalCount: res.TotalCount,
	}
}

// itemsToDTO never returns nil: empty partitions serialize as [].
func itemsToDTO(scored []result.Scored) []searchItem {
	out := make([]searchItem, len(scored))
	for i := range scored {
		c := scored[i].Candidate()
		out[i] = searchItem{
			ID:        c.ID,
			Type:      string(c.Type),
			Title:     c.Title,
			Subtitle:  c.Subtitle,
			Score:     scored[i].Score(),
			CaseID:    c.CaseID,
			CaseTitle: c.CaseTitle,
			Metadata:  c.Metadata,
		}
	}
	return out
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrEmbeddingUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
