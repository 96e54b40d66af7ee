// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/mockstats/internal/app"
	"github.com/okian/mockstats/internal/domain/history"
	"github.com/okian/mockstats/internal/domain/kpi"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/network"
	"github.com/okian/mockstats/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	SchoolDependencies
	ResultsDependencies
	NetworkDependencies
	StatsProvider
}

// SchoolDependencies covers registry reads and writes.
type SchoolDependencies interface {
	UpsertSchool(ctx context.Context, entry model.SchoolRegistryEntry) (model.SchoolRegistryEntry, error)
	GetSchool(ctx context.Context, id string) (model.SchoolRegistryEntry, error)
	ListSchools(ctx context.Context) ([]model.SchoolRegistryEntry, error)
	DeleteSchool(ctx context.Context, id string) error
	ImportScores(ctx context.Context, id, series string, src io.Reader) (int, error)
}

// ResultsDependencies covers per-school processing and commits.
type ResultsDependencies interface {
	Process(ctx context.Context, id, series string) (*service.Results, error)
	Statistics(ctx context.Context, id, series string) (model.ClassStatistics, error)
	KPI(ctx context.Context, id, series string) (kpi.School, error)
	Trend(ctx context.Context, id, studentID string) (history.Trend, error)
	Commit(ctx context.Context, id string) (service.CommitResult, error)
}

// NetworkDependencies covers network-wide reporting.
type NetworkDependencies interface {
	NetworkReport(ctx context.Context) (network.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	schoolsHandler *SchoolsHandler
	resultsHandler *ResultsHandler
	networkHandler *NetworkHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		schoolsHandler: NewSchoolsHandler(deps, log),
		resultsHandler: NewResultsHandler(deps, log),
		networkHandler: NewNetworkHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /schools", MetricsMiddleware(s.schoolsHandler.HandleList, "schools"))
	mux.HandleFunc("GET /schools/{id}", MetricsMiddleware(s.schoolsHandler.HandleGet, "school"))
	mux.HandleFunc("PUT /schools/{id}", MetricsMiddleware(s.schoolsHandler.HandlePut, "school"))
	mux.HandleFunc("DELETE /schools/{id}", MetricsMiddleware(s.schoolsHandler.HandleDelete, "school"))
	mux.HandleFunc("POST /schools/{id}/import", MetricsMiddleware(s.schoolsHandler.HandleImport, "import"))

	mux.HandleFunc("GET /schools/{id}/results", MetricsMiddleware(s.resultsHandler.HandleResults, "results"))
	mux.HandleFunc("GET /schools/{id}/statistics", MetricsMiddleware(s.resultsHandler.HandleStatistics, "statistics"))
	mux.HandleFunc("GET /schools/{id}/kpi", MetricsMiddleware(s.resultsHandler.HandleKPI, "kpi"))
	mux.HandleFunc("GET /schools/{id}/students/{student}/trend", MetricsMiddleware(s.resultsHandler.HandleTrend, "trend"))
	mux.HandleFunc("POST /schools/{id}/commit", MetricsMiddleware(s.resultsHandler.HandleCommit, "commit"))

	mux.HandleFunc("GET /network/report", MetricsMiddleware(s.networkHandler.HandleReport, "network_report"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service sentinels onto HTTP statuses.
func writeServiceError(ctx context.Context, log logger.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSchoolNotFound), errors.Is(err, service.ErrStudentNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNoTrend):
		writeError(w, http.StatusNotFound, "no_trend", err)
	case errors.Is(err, service.ErrInvalidDataset), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrSeriesEmpty):
		writeError(w, http.StatusConflict, "series_empty", err)
	case errors.Is(err, service.ErrSeriesCommitted):
		writeError(w, http.StatusConflict, "series_committed", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		log.Error(ctx, "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
