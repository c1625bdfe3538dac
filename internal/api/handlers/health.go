package handlers

import (
	"manifest-route-service/internal/api/dto"
	"net/http"
)

// HealthHandler reports liveness together with the configured pipeline backends.
type HealthHandler struct {
	Pipeline dto.PipelineInfo
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Pipeline: h.Pipeline,
	})
}
