package handlers

import (
	"net/http"
)

// HandleHealth responds to health check requests.
//
//	@Summary		Health check
//	@Description	Check if the API is running and whether photo storage is configured
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string	"status: ok, storage: configured|unconfigured"
//	@Router			/health [get]
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	storage := "unconfigured"
	if h.photos.Configured() {
		storage = "configured"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": storage,
	}, "Health")
}
