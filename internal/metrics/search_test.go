package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
	RegisterEmbeddingMetrics()
	RegisterEmbeddingMetrics()
}

func TestSearchExcludedTotal_ByReason(t *testing.T) {
	before := testutil.ToFloat64(SearchExcludedTotal.WithLabelValues("invalid_date"))
	SearchExcludedTotal.WithLabelValues("invalid_date").Add(3)

	got := testutil.ToFloat64(SearchExcludedTotal.WithLabelValues("invalid_date"))
	if got-before != 3 {
		t.Errorf("expected +3, got %f", got-before)
	}
}
