package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMiddlewareRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("NewCoverageCollector: %v", err)
	}

	handler := collector.Middleware("/v1/coverage", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/coverage", nil))

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/v1/coverage", "POST", "201")); got != 1 {
		t.Fatalf("coverage_http_requests_total = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "coverage_http_request_duration_seconds", map[string]string{
		"route":  "/v1/coverage",
		"method": "POST",
	}); count != 1 {
		t.Fatalf("coverage_http_request_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestCollectorRecordsPipelineObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("NewCoverageCollector: %v", err)
	}

	collector.ObservePlacement(2*time.Millisecond, 10)
	collector.ObservePlacement(3*time.Millisecond, 5)
	collector.ObserveAccumulation(10*time.Millisecond, 15, 100)

	if got := testutil.ToFloat64(collector.TargetsProcessed); got != 15 {
		t.Fatalf("coverage_targets_processed_total = %v, want 15", got)
	}
	if got := testutil.ToFloat64(collector.PixelsEvaluated); got != 1500 {
		t.Fatalf("coverage_pixels_evaluated_total = %v, want 1500", got)
	}
	if count := histogramSampleCount(t, reg, "coverage_placement_duration_seconds", nil); count != 2 {
		t.Fatalf("placement histogram sample_count = %d, want 2", count)
	}
}

func TestRecordJobUpdatesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("NewCoverageCollector: %v", err)
	}

	collector.RecordJob("ok", 2500, 7)
	collector.RecordJob("error", 0, 0)

	if got := testutil.ToFloat64(collector.JobsTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("coverage_jobs_total{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.JobsTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("coverage_jobs_total{error} = %v, want 1", got)
	}
	// An error outcome must not clobber the gauges from the last good job.
	if got := testutil.ToFloat64(collector.GridPixels); got != 2500 {
		t.Fatalf("coverage_grid_pixels = %v, want 2500", got)
	}
	if got := testutil.ToFloat64(collector.MaxDepth); got != 7 {
		t.Fatalf("coverage_max_depth = %v, want 7", got)
	}
}

func TestCollectorReusedRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCoverageCollector(reg); err != nil {
		t.Fatalf("first NewCoverageCollector: %v", err)
	}
	// Registering twice against the same registry must reuse the existing
	// collectors instead of failing.
	if _, err := NewCoverageCollector(reg); err != nil {
		t.Fatalf("second NewCoverageCollector: %v", err)
	}
}

func TestMetricsHandlerServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("NewCoverageCollector: %v", err)
	}
	collector.RecordJob("ok", 100, 3)

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"coverage_jobs_total",
		"coverage_grid_pixels",
		"coverage_max_depth",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	have := make(map[string]string, len(pairs))
	for _, lp := range pairs {
		have[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
