package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/pkg/logger"
)

// maxUploadBytes caps dataset and workbook uploads.
const maxUploadBytes = 32 << 20

// SchoolsHandler handles registry requests.
type SchoolsHandler struct {
	deps   SchoolDependencies
	logger logger.Logger
}

// NewSchoolsHandler creates a new schools handler.
func NewSchoolsHandler(deps SchoolDependencies, log logger.Logger) *SchoolsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SchoolsHandler{deps: deps, logger: log}
}

type schoolSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	StudentCount int    `json:"studentCount"`
	ActiveSeries string `json:"activeSeries"`
	Committed    int    `json:"committedSeries"`
}

// HandleList handles GET /schools requests.
func (h *SchoolsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	schools, err := h.deps.ListSchools(r.Context())
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	out := make([]schoolSummary, 0, len(schools))
	for _, s := range schools {
		out = append(out, schoolSummary{
			ID:           s.ID,
			Name:         s.Name,
			Status:       s.Status,
			StudentCount: s.StudentCount,
			ActiveSeries: s.Dataset.Settings.ActiveSeries,
			Committed:    len(s.Dataset.Settings.CommittedMocks),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /schools/{id} requests.
func (h *SchoolsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.GetSchool(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandlePut handles PUT /schools/{id} requests. The body is a full
// registry entry; a missing body id takes the path id.
func (h *SchoolsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var entry model.SchoolRegistryEntry
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err := dec.Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if entry.ID == "" {
		entry.ID = id
	}
	if entry.ID != id {
		writeError(w, http.StatusBadRequest, "bad_request", ErrIDMismatch)
		return
	}

	stored, err := h.deps.UpsertSchool(r.Context(), entry)
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleDelete handles DELETE /schools/{id} requests.
func (h *SchoolsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSchool(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleImport handles POST /schools/{id}/import?series=NAME with an xlsx body.
func (h *SchoolsHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	series := r.URL.Query().Get("series")
	n, err := h.deps.ImportScores(r.Context(), r.PathValue("id"), series, http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}
