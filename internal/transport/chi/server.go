// Package chi serves the newsrank HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/oapi-codegen/runtime/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	"github.com/gauravkeywords/gameloft/internal/domain/search/result"
	logpkg "github.com/gauravkeywords/gameloft/internal/logger"
	healthuc "github.com/gauravkeywords/gameloft/internal/usecase/health"
	searchuc "github.com/gauravkeywords/gameloft/internal/usecase/search"
)

// maxBodyBytes caps the POST body; a 1024-dim embedding in JSON is well under it.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Searcher runs semantic searches.
type Searcher interface {
	Search(ctx context.Context, p request.Params) (searchuc.Response, error)
}

// HealthReporter reports component health and the document store probe.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
	Probe(ctx context.Context) healthuc.ProbeReport
}

// Server implements the HTTP handlers.
type Server struct {
	search         Searcher
	health         HealthReporter
	logger         *zap.Logger
	requestTimeout time.Duration
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. A zero requestTimeout leaves searches bounded
// only by the client connection.
func NewServer(search Searcher, health HealthReporter, requestTimeout time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:         search,
		health:         health,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorResponseCodeTimeout),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrDocumentStore, http.StatusServiceUnavailable, ErrorResponseCodeDocumentStoreError),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, ErrorResponseCodeUpstreamError),
		detailHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, ErrorResponseCodeVectorDimMismatch),
		detailHandler(domain.ErrValidation, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
	}
	return s
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s.runSearch(w, r, request.Params{
		Query:          req.Query,
		QueryEmbedding: req.QueryEmbedding,
		StartDate:      req.StartDate.Time,
		EndDate:        req.EndDate.Time,
		Threshold:      req.SimilarityThreshold,
		Limit:          req.ResultLimit,
	})
}

// SearchQuery handles GET /api/v1/search.
func (s *Server) SearchQuery(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}

	s.runSearch(w, r, request.Params{
		Query:     params.Query,
		StartDate: params.StartDate.Time,
		EndDate:   params.EndDate.Time,
		Threshold: params.SimilarityThreshold,
		Limit:     params.ResultLimit,
	})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, p request.Params) {
	ctx := searchuc.WithSource(r.Context(), searchuc.SourceHTTP)
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	ctx, usage := domain.WithQueryUsage(ctx)

	resp, err := s.search.Search(ctx, p)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	items := make([]SearchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = searchResultToDTO(&resp.Results[i])
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, SearchResponse{
		Items:               items,
		Total:               len(items),
		StartDate:           types.Date{Time: resp.StartDate},
		EndDate:             types.Date{Time: resp.EndDate},
		SimilarityThreshold: resp.Threshold,
		ResultLimit:         resp.Limit,
	})
}

// Status handles GET /api/v1/status.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	report := s.health.Probe(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.ProbeSuccess {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var params SearchParams
	q := r.URL.Query()

	var query *string
	if err := runtime.BindQueryParameter("form", true, false, "query", q, &query); err != nil {
		return params, fmt.Errorf("invalid format for parameter query: %w", err)
	}
	if query != nil {
		params.Query = *query
	}
	if err := runtime.BindQueryParameter("form", true, true, "start_date", q, &params.StartDate); err != nil {
		return params, fmt.Errorf("invalid format for parameter start_date: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "end_date", q, &params.EndDate); err != nil {
		return params, fmt.Errorf("invalid format for parameter end_date: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "similarity_threshold", q,
		&params.SimilarityThreshold); err != nil {
		return params, fmt.Errorf("invalid format for parameter similarity_threshold: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "result_limit", q, &params.ResultLimit); err != nil {
		return params, fmt.Errorf("invalid format for parameter result_limit: %w", err)
	}
	return params, nil
}

func searchResultToDTO(r *result.Result) SearchResultItem {
	metadata := r.Metadata()
	if metadata == nil {
		metadata = map[string]any{}
	}
	return SearchResultItem{
		ID:          r.ID(),
		Content:     r.Content(),
		Metadata:    metadata,
		Similarity:  r.Similarity(),
		ContentDate: types.Date{Time: r.ContentDate()},
	}
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.QueryUsage) {
	if usage != nil && usage.Encoded {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		context.DeadlineExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrDocumentStore,
		domain.ErrUpstream,
		domain.ErrVectorDimMismatch,
		domain.ErrValidation,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// detailHandler is a sentinelHandler for caller errors: the full message describes the
// caller's own input and is returned as is.
func detailHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logpkg.FromContext(ctx, s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
