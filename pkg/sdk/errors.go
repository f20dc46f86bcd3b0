package newsrank

import "github.com/gauravkeywords/gameloft/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation             = domain.ErrValidation
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrUpstream               = domain.ErrUpstream
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrDocumentStore          = domain.ErrDocumentStore
)
