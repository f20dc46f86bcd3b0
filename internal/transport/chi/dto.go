package chi

import (
	"github.com/oapi-codegen/runtime/types"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned by the API.
const (
	ErrorResponseCodeBadRequest             ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized           ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed       ErrorResponseCode = "validation_failed"
	ErrorResponseCodeVectorDimMismatch      ErrorResponseCode = "vector_dim_mismatch"
	ErrorResponseCodeEmbeddingProviderError ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeDocumentStoreError     ErrorResponseCode = "document_store_unavailable"
	ErrorResponseCodeUpstreamError          ErrorResponseCode = "upstream_error"
	ErrorResponseCodeTimeout                ErrorResponseCode = "timeout"
	ErrorResponseCodeInternalError          ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchRequest is the POST /api/v1/search body. Exactly one of Query and QueryEmbedding is set.
type SearchRequest struct {
	Query               string     `json:"query,omitempty"`
	QueryEmbedding      []float32  `json:"query_embedding,omitempty"`
	StartDate           types.Date `json:"start_date"`
	EndDate             types.Date `json:"end_date"`
	SimilarityThreshold *float64   `json:"similarity_threshold,omitempty"`
	ResultLimit         *int       `json:"result_limit,omitempty"`
}

// SearchParams are the GET /api/v1/search query parameters.
type SearchParams struct {
	Query               string
	StartDate           types.Date
	EndDate             types.Date
	SimilarityThreshold *float64
	ResultLimit         *int
}

// SearchResultItem is one ranked hit.
type SearchResultItem struct {
	ID          int64          `json:"id"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata"`
	Similarity  float64        `json:"similarity"`
	ContentDate types.Date     `json:"content_date"`
}

// SearchResponse is the search result list.
type SearchResponse struct {
	Items               []SearchResultItem `json:"items"`
	Total               int                `json:"total"`
	StartDate           types.Date         `json:"start_date"`
	EndDate             types.Date         `json:"end_date"`
	SimilarityThreshold float64            `json:"similarity_threshold"`
	ResultLimit         int                `json:"result_limit"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
