// Package api exposes the coverage service over HTTP/JSON: a catalog of
// footprint templates and pointing lists, and synchronous coverage-map
// computation against the stored inputs.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/surveyfoundry/skycoverage/catalog"
	"github.com/surveyfoundry/skycoverage/core"
	"github.com/surveyfoundry/skycoverage/internal/logging"
	"github.com/surveyfoundry/skycoverage/internal/observability"
)

const requestIDHeader = "X-Request-Id"

// Server wires the catalog and the coverage engine into HTTP handlers.
type Server struct {
	store     *catalog.Catalog
	engine    *core.Engine
	log       logging.Logger
	collector *observability.CoverageCollector
}

// NewServer constructs the API server. The collector may be nil, in
// which case no request metrics are recorded.
func NewServer(store *catalog.Catalog, engine *core.Engine, log logging.Logger, collector *observability.CoverageCollector) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{store: store, engine: engine, log: log, collector: collector}
}

// Handler returns the routed HTTP handler with request-ID and metrics
// middleware applied per route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", s.route("/healthz", s.handleHealth))
	mux.Handle("POST /v1/footprints", s.route("/v1/footprints", s.handleCreateFootprint))
	mux.Handle("GET /v1/footprints", s.route("/v1/footprints", s.handleListFootprints))
	mux.Handle("GET /v1/footprints/{name}", s.route("/v1/footprints/{name}", s.handleGetFootprint))
	mux.Handle("POST /v1/targetlists", s.route("/v1/targetlists", s.handleCreateTargetList))
	mux.Handle("GET /v1/targetlists", s.route("/v1/targetlists", s.handleListTargetLists))
	mux.Handle("POST /v1/coverage", s.route("/v1/coverage", s.handleComputeCoverage))
	mux.Handle("GET /v1/coverage", s.route("/v1/coverage", s.handleListJobs))
	mux.Handle("GET /v1/coverage/{id}", s.route("/v1/coverage/{id}", s.handleGetJob))

	return mux
}

// route stacks the request-ID and metrics middleware in front of a
// handler.
func (s *Server) route(name string, h http.HandlerFunc) http.Handler {
	var handler http.Handler = h
	if s.collector != nil {
		handler = s.collector.Middleware(name, handler)
	}
	return s.withRequestID(handler)
}

// withRequestID ensures every request carries a request_id, sourcing it
// from the inbound header when present, and attaches a per-request
// logger to the context.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if incoming := r.Header.Get(requestIDHeader); incoming != "" {
			ctx = logging.ContextWithRequestID(ctx, incoming)
		}

		ctx, reqLog := logging.WithRequestLogger(ctx, s.log.With(logging.String("path", r.URL.Path)))
		ctx = logging.ContextWithLogger(ctx, reqLog)

		w.Header().Set(requestIDHeader, logging.RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrExists):
		status = http.StatusConflict
	}

	log := logging.LoggerFromContext(r.Context(), s.log)
	log.Warn(r.Context(), "request failed",
		logging.Int("status", status),
		logging.Err(err),
	)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
