package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/surveyfoundry/skycoverage/catalog"
	"github.com/surveyfoundry/skycoverage/core"
	"github.com/surveyfoundry/skycoverage/internal/logging"
	"github.com/surveyfoundry/skycoverage/internal/observability"
	"github.com/surveyfoundry/skycoverage/model"
	"github.com/surveyfoundry/skycoverage/pointing"
)

type footprintRequest struct {
	Name     string      `json:"name"`
	Vertices [][]float64 `json:"vertices"`
}

type footprintResponse struct {
	Name     string      `json:"name"`
	Vertices [][]float64 `json:"vertices"`
}

func (s *Server) handleCreateFootprint(w http.ResponseWriter, r *http.Request) {
	var req footprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode footprint: %w", err))
		return
	}

	poly := make(core.Polygon, 0, len(req.Vertices))
	for i, v := range req.Vertices {
		if len(v) != 2 {
			s.writeError(w, r, fmt.Errorf("vertex %d has %d coordinates, want 2", i, len(v)))
			return
		}
		poly = append(poly, core.Point{Lon: v[0], Lat: v[1]})
	}

	if err := s.store.AddFootprint(req.Name, poly.Close()); err != nil {
		s.writeError(w, r, err)
		return
	}

	log := logging.LoggerFromContext(r.Context(), s.log)
	log.Info(r.Context(), "footprint registered",
		logging.String("name", req.Name),
		logging.Int("vertices", len(req.Vertices)),
	)
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleListFootprints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"footprints": s.store.ListFootprints()})
}

func (s *Server) handleGetFootprint(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	poly, err := s.store.GetFootprint(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	vertices := make([][]float64, len(poly))
	for i, v := range poly {
		vertices[i] = []float64{v.Lon, v.Lat}
	}
	writeJSON(w, http.StatusOK, footprintResponse{Name: name, Vertices: vertices})
}

type targetListRequest struct {
	Name    string         `json:"name"`
	Targets []model.Target `json:"targets"`
}

func (s *Server) handleCreateTargetList(w http.ResponseWriter, r *http.Request) {
	var req targetListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode target list: %w", err))
		return
	}

	if err := s.store.AddTargetList(req.Name, req.Targets); err != nil {
		s.writeError(w, r, err)
		return
	}

	log := logging.LoggerFromContext(r.Context(), s.log)
	log.Info(r.Context(), "target list registered",
		logging.String("name", req.Name),
		logging.Int("targets", len(req.Targets)),
	)
	writeJSON(w, http.StatusCreated, map[string]any{"name": req.Name, "targets": len(req.Targets)})
}

func (s *Server) handleListTargetLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"target_lists": s.store.ListTargetLists()})
}

type coverageRequest struct {
	Footprint string         `json:"footprint"`
	Targets   string         `json:"targets"`
	Extent    model.Extent   `json:"extent"`
	Size      model.GridSize `json:"size"`
	Slice     string         `json:"slice,omitempty"`
}

type coverageResponse struct {
	JobID  string                `json:"job_id"`
	Result *model.CoverageResult `json:"result"`
}

func (s *Server) handleComputeCoverage(w http.ResponseWriter, r *http.Request) {
	var req coverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode coverage request: %w", err))
		return
	}
	if req.Size.NLon < 0 || req.Size.NLat < 0 {
		s.writeError(w, r, fmt.Errorf("grid size must be non-negative, got %dx%d", req.Size.NLon, req.Size.NLat))
		return
	}

	template, err := s.store.GetFootprint(req.Footprint)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	targets, err := s.store.GetTargetList(req.Targets)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Slice != "" {
		sl, err := pointing.ParseSlice(req.Slice)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		targets = sl.Apply(targets)
	}

	ctx, span := otel.Tracer(observability.TracerName).Start(r.Context(), "coverage.compute")
	span.SetAttributes(
		attribute.String("footprint", req.Footprint),
		attribute.Int("targets", len(targets)),
		attribute.Int("pixels", req.Size.Pixels()),
	)
	defer span.End()

	start := time.Now()
	result, err := s.engine.Map(ctx, model.GridSpec{Extent: req.Extent, Size: req.Size}, targets, template)
	if err != nil {
		span.RecordError(err)
		if s.collector != nil {
			s.collector.RecordJob("error", 0, 0)
		}
		s.writeError(w, r, err)
		return
	}
	elapsed := time.Since(start)
	if s.collector != nil {
		s.collector.RecordJob("ok", req.Size.Pixels(), result.MaxDepth())
	}

	jobID := s.store.StoreJob(&catalog.Job{
		Footprint: req.Footprint,
		Targets:   req.Targets,
		Spec:      model.GridSpec{Extent: req.Extent, Size: req.Size},
		Result:    result,
		Elapsed:   elapsed,
	})

	log := logging.LoggerFromContext(r.Context(), s.log)
	log.Info(ctx, "coverage job completed",
		logging.String("job_id", jobID),
		logging.Int("targets", len(targets)),
		logging.Int("pixels", req.Size.Pixels()),
		logging.Duration("elapsed", elapsed),
	)
	writeJSON(w, http.StatusCreated, coverageResponse{JobID: jobID, Result: result})
}

type jobSummary struct {
	ID        string         `json:"id"`
	Footprint string         `json:"footprint"`
	Targets   string         `json:"targets"`
	Size      model.GridSize `json:"size"`
	Created   time.Time      `json:"created"`
	ElapsedMS int64          `json:"elapsed_ms"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.store.ListJobs()
	summaries := make([]jobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, jobSummary{
			ID:        job.ID,
			Footprint: job.Footprint,
			Targets:   job.Targets,
			Size:      job.Spec.Size,
			Created:   job.Created,
			ElapsedMS: job.Elapsed.Milliseconds(),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]jobSummary{"jobs": summaries})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coverageResponse{JobID: job.ID, Result: job.Result})
}
