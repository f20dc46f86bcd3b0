package search

import (
	"context"
	"time"

	"github.com/gauravkeywords/gameloft/internal/domain"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
)

// Repository supplies the date-filtered candidate snapshot.
type Repository interface {
	FetchByDateRange(ctx context.Context, start, end time.Time) ([]domdoc.Document, error)
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
