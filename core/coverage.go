package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/surveyfoundry/skycoverage/internal/logging"
	"github.com/surveyfoundry/skycoverage/model"
)

// Accumulate sums per-pixel membership indicators over all placed
// polygons: the result holds, for each pixel centre, the number of
// polygons that enclose it. Polygon order does not matter (addition
// commutes). An empty polygon list yields all zeros. Every polygon is
// validated before any membership work starts, so a malformed footprint
// fails the whole call instead of contributing silent zeros.
func Accumulate(pixels []Point, polygons []Polygon) ([]int32, error) {
	for i, poly := range polygons {
		if err := poly.Validate(); err != nil {
			return nil, fmt.Errorf("polygon %d: %w", i, err)
		}
	}

	coverage := make([]int32, len(pixels))
	for _, poly := range polygons {
		for i, m := range Membership(pixels, poly) {
			coverage[i] += m
		}
	}
	return coverage, nil
}

// CoverageMetricsRecorder receives timing and volume observations from the
// engine. The observability collector satisfies it; the zero engine uses
// none.
type CoverageMetricsRecorder interface {
	ObservePlacement(d time.Duration, targets int)
	ObserveAccumulation(d time.Duration, polygons, pixels int)
}

// Engine computes coverage maps with a bounded worker pool. All inputs
// are immutable and every polygon/pixel pair is independent, so the only
// shared state is the final fan-in sum of per-worker partial coverage
// vectors. The engine itself is stateless and safe for concurrent use.
type Engine struct {
	workers   int
	chunkSize int
	log       logging.Logger
	metrics   CoverageMetricsRecorder
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithWorkers bounds the number of goroutines used for accumulation.
// Values below 1 fall back to the number of CPUs.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) { e.workers = n }
}

// WithChunkSize bounds memory by placing and accumulating at most n
// targets at a time instead of materialising every placed polygon at
// once. Values below 1 disable chunking.
func WithChunkSize(n int) EngineOption {
	return func(e *Engine) { e.chunkSize = n }
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithMetricsRecorder attaches a metrics sink.
func WithMetricsRecorder(m CoverageMetricsRecorder) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine constructs an engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{log: logging.Noop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logging.Noop()
	}
	return e
}

// Coverage places the footprint template on every target and accumulates
// per-pixel coverage counts. Targets are processed in chunks so that at
// most chunkSize placed polygons exist at a time; within a chunk the
// polygons are partitioned across workers and the partial sums merged at
// a single fan-in point.
func (e *Engine) Coverage(ctx context.Context, pixels []Point, targets []model.Target, template Polygon) ([]int32, error) {
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("footprint template: %w", err)
	}

	coverage := make([]int32, len(pixels))
	if len(pixels) == 0 || len(targets) == 0 {
		return coverage, nil
	}

	chunk := e.chunkSize
	if chunk < 1 {
		chunk = len(targets)
	}

	for start := 0; start < len(targets); start += chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + chunk
		if end > len(targets) {
			end = len(targets)
		}

		placeStart := time.Now()
		placed := PlacePolygons(targets[start:end], template)
		if e.metrics != nil {
			e.metrics.ObservePlacement(time.Since(placeStart), len(placed))
		}

		accStart := time.Now()
		partial, err := e.accumulateParallel(ctx, pixels, placed)
		if err != nil {
			return nil, err
		}
		if e.metrics != nil {
			e.metrics.ObserveAccumulation(time.Since(accStart), len(placed), len(pixels))
		}

		for i, c := range partial {
			coverage[i] += c
		}

		e.log.Debug(ctx, "accumulated target chunk",
			logging.Int("from", start),
			logging.Int("to", end),
			logging.Int("pixels", len(pixels)),
		)
	}
	return coverage, nil
}

// Map runs the full pipeline for a grid specification: build pixel
// centres, accumulate coverage, and reshape into an image with edge axes.
func (e *Engine) Map(ctx context.Context, spec model.GridSpec, targets []model.Target, template Polygon) (*model.CoverageResult, error) {
	pixels := MakePixels(spec.Extent, spec.Size)

	coverage, err := e.Coverage(ctx, pixels, targets, template)
	if err != nil {
		return nil, err
	}

	lonEdges, latEdges, image, err := ReshapeImage(coverage, spec.Extent, spec.Size)
	if err != nil {
		return nil, err
	}

	return &model.CoverageResult{
		Extent:     spec.Extent,
		Size:       spec.Size,
		Coverage:   coverage,
		LonEdges:   lonEdges,
		LatEdges:   latEdges,
		Image:      image,
		NumTargets: len(targets),
	}, nil
}

// accumulateParallel partitions polygons across workers, each summing
// into its own partial vector, and merges the partials once all workers
// are done. No locking beyond the final merge is needed: the membership
// tests share nothing.
func (e *Engine) accumulateParallel(ctx context.Context, pixels []Point, polygons []Polygon) ([]int32, error) {
	for i, poly := range polygons {
		if err := poly.Validate(); err != nil {
			return nil, fmt.Errorf("placed polygon %d: %w", i, err)
		}
	}

	workers := e.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(polygons) {
		workers = len(polygons)
	}
	if workers <= 1 {
		return Accumulate(pixels, polygons)
	}

	jobs := make(chan Polygon)
	partials := make([][]int32, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		partials[w] = make([]int32, len(pixels))
		wg.Add(1)
		go func(partial []int32) {
			defer wg.Done()
			for poly := range jobs {
				for i, m := range Membership(pixels, poly) {
					partial[i] += m
				}
			}
		}(partials[w])
	}

	var cancelled error
feed:
	for _, poly := range polygons {
		select {
		case jobs <- poly:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	coverage := make([]int32, len(pixels))
	for _, partial := range partials {
		for i, c := range partial {
			coverage[i] += c
		}
	}
	return coverage, nil
}
