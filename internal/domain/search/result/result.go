package result

import "time"

// Result is a single ranked search hit.
// Similarity is the raw cosine similarity; the recency-boosted score only orders results.
type Result struct {
	id          int64
	content     string
	metadata    map[string]any
	similarity  float64
	contentDate time.Time
}

// New creates a search result.
func New(id int64, content string, metadata map[string]any, similarity float64, contentDate time.Time) Result {
	return Result{
		id: id, content: content, metadata: metadata,
		similarity: similarity, contentDate: contentDate,
	}
}

// ID returns the document identifier.
func (r *Result) ID() int64 { return r.id }

// Content returns the document content.
func (r *Result) Content() string { return r.content }

// Metadata returns the document metadata.
func (r *Result) Metadata() map[string]any { return r.metadata }

// Similarity returns the raw cosine similarity to the query.
func (r *Result) Similarity() float64 { return r.similarity }

// ContentDate returns the parsed publication day.
func (r *Result) ContentDate() time.Time { return r.contentDate }
