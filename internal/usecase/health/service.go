package health

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	"github.com/gauravkeywords/gameloft/internal/usecase/search"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Probe outcome values.
const (
	ProbeSuccess = "success"
	ProbeError   = "error"
)

// ProbeReport describes the document store and whether the ranking path can be called.
type ProbeReport struct {
	Status                 string `json:"status"`
	DocumentCount          int64  `json:"document_count"`
	VectorFunctionCallable bool   `json:"vector_function_callable"`
	DimensionMismatch      bool   `json:"dimension_mismatch,omitempty"`
	Error                  string `json:"error,omitempty"`
}

// Fixed two-day window used by the probe search.
var (
	probeStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	probeEnd   = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
)

// Deps holds the components a Service inspects. Cache, Embedding, Counter and Searcher are optional.
type Deps struct {
	Database  Pinger
	Cache     Pinger
	Embedding EmbeddingChecker
	Counter   Counter
	Searcher  Searcher
}

// Service coordinates health checks.
type Service struct {
	deps   Deps
	logger *zap.Logger
}

// New creates a Service.
func New(deps Deps, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{deps: deps, logger: logger}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["database"] = result(s.deps.Database.Ping(ctx))
	if s.deps.Cache != nil {
		checks["cache"] = result(s.deps.Cache.Ping(ctx))
	}
	if s.deps.Embedding != nil {
		checks["embedding"] = result(s.deps.Embedding.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

// Probe counts stored documents and runs a zero-vector search over a fixed 2020 window.
// A failing count makes the whole probe fail; a failing search only clears VectorFunctionCallable.
// Without a Counter or Searcher the probe reports an error.
func (s *Service) Probe(ctx context.Context) ProbeReport {
	s.logger.Info("Starting document store probe")

	if s.deps.Counter == nil || s.deps.Searcher == nil {
		s.logger.Warn("Document store probe requested without a counter or searcher")
		return ProbeReport{Status: ProbeError, Error: "probe not configured"}
	}

	count, err := s.deps.Counter.Count(ctx)
	if err != nil {
		s.logger.Error("Document store probe failed", zap.Error(err))
		return ProbeReport{Status: ProbeError, Error: "document store unavailable"}
	}

	report := ProbeReport{Status: ProbeSuccess, DocumentCount: count}

	threshold, limit := 0.0, 1
	_, err = s.deps.Searcher.Search(search.WithSource(ctx, search.SourceProbe), request.Params{
		QueryEmbedding: make([]float32, s.deps.Searcher.Dimensions()),
		StartDate:      probeStart,
		EndDate:        probeEnd,
		Threshold:      &threshold,
		Limit:          &limit,
	})
	switch {
	case err == nil:
		report.VectorFunctionCallable = true
	case errors.Is(err, domain.ErrVectorDimMismatch):
		report.DimensionMismatch = true
		s.logger.Error("Stored embeddings do not match the configured dimension",
			zap.Int("dimensions", s.deps.Searcher.Dimensions()), zap.Error(err))
	default:
		s.logger.Warn("Vector search probe failed", zap.Error(err))
	}

	return report
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
