package health

import (
	"context"

	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	"github.com/gauravkeywords/gameloft/internal/usecase/search"
)

// Pinger checks backend availability (database, cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// Counter reports the number of stored documents.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Searcher runs the ranking path end to end.
type Searcher interface {
	Search(ctx context.Context, p request.Params) (search.Response, error)
	Dimensions() int
}
