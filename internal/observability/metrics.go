package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CoverageCollector bundles Prometheus metrics for the coverage pipeline
// and the HTTP surface of the coverage service. It satisfies
// core.CoverageMetricsRecorder so the engine can drive it directly.
type CoverageCollector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	PlacementDuration    prometheus.Histogram
	AccumulationDuration prometheus.Histogram
	TargetsProcessed     prometheus.Counter
	PixelsEvaluated      prometheus.Counter
	JobsTotal            *prometheus.CounterVec

	GridPixels prometheus.Gauge
	MaxDepth   prometheus.Gauge
}

// NewCoverageCollector registers coverage metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCoverageCollector(reg prometheus.Registerer) (*CoverageCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "code"})
	requests, err := registerCounterVec(reg, requests, "coverage_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coverage_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"route", "method"})
	durations, err = registerHistogramVec(reg, durations, "coverage_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	placement := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coverage_placement_duration_seconds",
		Help:    "Time spent rotating the footprint template onto a chunk of targets.",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
	})
	placement, err = registerHistogram(reg, placement, "coverage_placement_duration_seconds")
	if err != nil {
		return nil, err
	}

	accumulation := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coverage_accumulation_duration_seconds",
		Help:    "Time spent accumulating per-pixel membership for a chunk of placed polygons.",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
	})
	accumulation, err = registerHistogram(reg, accumulation, "coverage_accumulation_duration_seconds")
	if err != nil {
		return nil, err
	}

	targets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_targets_processed_total",
		Help: "Cumulative number of pointings placed on the sky.",
	})
	targets, err = registerCounter(reg, targets, "coverage_targets_processed_total")
	if err != nil {
		return nil, err
	}

	pixels := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_pixels_evaluated_total",
		Help: "Cumulative number of pixel-polygon membership evaluations.",
	})
	pixels, err = registerCounter(reg, pixels, "coverage_pixels_evaluated_total")
	if err != nil {
		return nil, err
	}

	jobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_jobs_total",
		Help: "Completed coverage jobs, labeled by outcome.",
	}, []string{"outcome"})
	jobs, err = registerCounterVec(reg, jobs, "coverage_jobs_total")
	if err != nil {
		return nil, err
	}

	gridPixels, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coverage_grid_pixels",
		Help: "Number of pixel centres in the most recent coverage grid.",
	}), "coverage_grid_pixels")
	if err != nil {
		return nil, err
	}
	maxDepth, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coverage_max_depth",
		Help: "Deepest per-pixel count of the most recent coverage map.",
	}), "coverage_max_depth")
	if err != nil {
		return nil, err
	}

	return &CoverageCollector{
		gatherer:             gatherer,
		HTTPRequests:         requests,
		HTTPDurations:        durations,
		PlacementDuration:    placement,
		AccumulationDuration: accumulation,
		TargetsProcessed:     targets,
		PixelsEvaluated:      pixels,
		JobsTotal:            jobs,
		GridPixels:           gridPixels,
		MaxDepth:             maxDepth,
	}, nil
}

// ObservePlacement implements core.CoverageMetricsRecorder.
func (c *CoverageCollector) ObservePlacement(d time.Duration, targets int) {
	if c == nil {
		return
	}
	c.PlacementDuration.Observe(d.Seconds())
	c.TargetsProcessed.Add(float64(targets))
}

// ObserveAccumulation implements core.CoverageMetricsRecorder.
func (c *CoverageCollector) ObserveAccumulation(d time.Duration, polygons, pixels int) {
	if c == nil {
		return
	}
	c.AccumulationDuration.Observe(d.Seconds())
	c.PixelsEvaluated.Add(float64(polygons) * float64(pixels))
}

// RecordJob counts a finished job and updates the map gauges.
func (c *CoverageCollector) RecordJob(outcome string, gridPixels int, maxDepth int32) {
	if c == nil {
		return
	}
	c.JobsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		c.GridPixels.Set(float64(gridPixels))
		c.MaxDepth.Set(float64(maxDepth))
	}
}

// Middleware records request counts and durations for an HTTP route.
func (c *CoverageCollector) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if c == nil {
			return
		}
		code := strconv.Itoa(rec.status)
		c.HTTPRequests.WithLabelValues(route, r.Method, code).Inc()
		c.HTTPDurations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CoverageCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
