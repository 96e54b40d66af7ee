package api

import (
	"net/http"

	"github.com/okian/mockstats/pkg/logger"
)

// NetworkHandler handles network-wide reports.
type NetworkHandler struct {
	deps   NetworkDependencies
	logger logger.Logger
}

// NewNetworkHandler creates a new network handler.
func NewNetworkHandler(deps NetworkDependencies, log logger.Logger) *NetworkHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &NetworkHandler{deps: deps, logger: log}
}

// HandleReport handles GET /network/report requests.
func (h *NetworkHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.NetworkReport(r.Context())
	if err != nil {
		writeServiceError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
