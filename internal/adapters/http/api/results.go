package api

import (
	"net/http"

	"github.com/okian/mockstats/pkg/logger"
)

// ResultsHandler handles per-school processing requests. Every read
// accepts an optional ?series= query that defaults to the active series.
type ResultsHandler struct {
	deps   ResultsDependencies
	logger logger.Logger
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies, log logger.Logger) *ResultsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ResultsHandler{deps: deps, logger: log}
}

// HandleResults handles GET /schools/{id}/results requests.
func (h *ResultsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Process(r.Context(), r.PathValue("id"), r.URL.Query().Get("series"))
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleStatistics handles GET /schools/{id}/statistics requests.
func (h *ResultsHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	cs, err := h.deps.Statistics(r.Context(), r.PathValue("id"), r.URL.Query().Get("series"))
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// HandleKPI handles GET /schools/{id}/kpi requests.
func (h *ResultsHandler) HandleKPI(w http.ResponseWriter, r *http.Request) {
	k, err := h.deps.KPI(r.Context(), r.PathValue("id"), r.URL.Query().Get("series"))
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

// HandleTrend handles GET /schools/{id}/students/{student}/trend requests.
func (h *ResultsHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.Trend(r.Context(), r.PathValue("id"), r.PathValue("student"))
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleCommit handles POST /schools/{id}/commit requests.
func (h *ResultsHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	cr, err := h.deps.Commit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, cr)
}
