package newsrank

import (
	"context"
	"time"

	healthuc "github.com/gauravkeywords/gameloft/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the document store and, when configured, the cache and the embedder.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	c.obs.observe("health", start, nil)
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Status counts the stored documents and runs a zero-vector search to check the ranking path.
func (c *Client) Status(ctx context.Context) ProbeStatus {
	start := time.Now()
	p := c.healthSvc.Probe(ctx)
	c.obs.observe("status", start, nil)
	return ProbeStatus{
		Status:                 p.Status,
		DocumentCount:          p.DocumentCount,
		VectorFunctionCallable: p.VectorFunctionCallable,
		DimensionMismatch:      p.DimensionMismatch,
		Error:                  p.Error,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
	Probe(ctx context.Context) healthuc.ProbeReport
}
