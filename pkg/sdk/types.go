package newsrank

import "time"

// SearchRequest is a query over an inclusive date window.
// Exactly one of Query and QueryEmbedding must be set. Nil Threshold and Limit use the client defaults.
type SearchRequest struct {
	Query          string
	QueryEmbedding []float32
	StartDate      time.Time
	EndDate        time.Time
	Threshold      *float64
	Limit          *int
}

// Hit is a ranked document. Similarity is the raw cosine similarity.
type Hit struct {
	ID          int64
	Content     string
	Metadata    map[string]any
	Similarity  float64
	ContentDate time.Time
}

// SearchResponse holds the hits and the parameters actually applied.
type SearchResponse struct {
	Hits       []Hit
	StartDate  time.Time
	EndDate    time.Time
	Threshold  float64
	Limit      int
	Candidates int
	Tokens     int // embedding tokens spent on the query, 0 on a cache hit
}

// Document is a news chunk to store. Metadata should carry a "date" entry (YYYY-MM-DD).
type Document struct {
	Content   string
	Metadata  map[string]any
	Embedding []float32
}

// ProbeStatus reports whether the document store answers and the ranking path can be called.
type ProbeStatus struct {
	Status                 string // "success" or "error"
	DocumentCount          int64
	VectorFunctionCallable bool
	DimensionMismatch      bool
	Error                  string
}
