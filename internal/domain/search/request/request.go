package request

import (
	"math"
	"time"

	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/calendar"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength   = 4096
	DefaultThreshold = 0.6
	DefaultLimit     = 10
	MaxLimit         = 100
)

// Defaults are the service-level fallbacks applied when a caller omits a parameter.
type Defaults struct {
	Threshold float64
	Limit     int
	MaxLimit  int
}

// DefaultDefaults returns the built-in fallbacks.
func DefaultDefaults() Defaults {
	return Defaults{Threshold: DefaultThreshold, Limit: DefaultLimit, MaxLimit: MaxLimit}
}

// Params is the raw, unvalidated search input. Nil pointers mean "use the default".
type Params struct {
	Query          string
	QueryEmbedding []float32
	StartDate      time.Time
	EndDate        time.Time
	Threshold      *float64
	Limit          *int
}

// Request is a validated search query over a date window.
type Request struct {
	query          string
	queryEmbedding []float32
	startDate      time.Time
	endDate        time.Time
	threshold      float64
	limit          int
}

// New validates and normalizes search parameters.
// Exactly one of Query and QueryEmbedding must be set. Dates are truncated to calendar days.
// A limit above d.MaxLimit is clamped.
func New(p Params, d Defaults) (Request, error) {
	hasText := p.Query != ""
	hasVector := len(p.QueryEmbedding) > 0
	switch {
	case !hasText && !hasVector:
		return Request{}, domain.Validationf("query or query_embedding is required")
	case hasText && hasVector:
		return Request{}, domain.Validationf("query and query_embedding are mutually exclusive")
	}
	if len(p.Query) > MaxQueryLength {
		return Request{}, domain.Validationf("query too long (max %d chars)", MaxQueryLength)
	}

	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return Request{}, domain.Validationf("start_date and end_date are required")
	}
	start, end := calendar.Day(p.StartDate), calendar.Day(p.EndDate)
	if start.After(end) {
		return Request{}, domain.Validationf("start_date %s is after end_date %s",
			calendar.Format(start), calendar.Format(end))
	}

	threshold := d.Threshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}
	if math.IsNaN(threshold) || threshold < -1 || threshold > 1 {
		return Request{}, domain.Validationf("similarity_threshold must be between -1 and 1")
	}

	limit := d.Limit
	if p.Limit != nil {
		limit = *p.Limit
	}
	if limit <= 0 {
		return Request{}, domain.Validationf("result_limit must be > 0, got %d", limit)
	}
	if d.MaxLimit > 0 && limit > d.MaxLimit {
		limit = d.MaxLimit
	}

	return Request{
		query:          p.Query,
		queryEmbedding: p.QueryEmbedding,
		startDate:      start,
		endDate:        end,
		threshold:      threshold,
		limit:          limit,
	}, nil
}

// Query returns the search query text (empty when an embedding was supplied).
func (r *Request) Query() string { return r.query }

// QueryEmbedding returns the caller-supplied query embedding, if any.
func (r *Request) QueryEmbedding() []float32 { return r.queryEmbedding }

// HasEmbedding reports whether the caller supplied the query embedding directly.
func (r *Request) HasEmbedding() bool { return len(r.queryEmbedding) > 0 }

// StartDate returns the first day of the window (inclusive).
func (r *Request) StartDate() time.Time { return r.startDate }

// EndDate returns the last day of the window (inclusive).
func (r *Request) EndDate() time.Time { return r.endDate }

// Threshold returns the strict lower bound on raw similarity.
func (r *Request) Threshold() float64 { return r.threshold }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }
