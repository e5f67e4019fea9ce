package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio-api/internal/models"
	"portfolio-api/internal/services"
	"portfolio-api/internal/utils"
)

// HandleCovers resolves the cover photo of several collections at once.
//
//	@Summary		Batch cover lookup
//	@Description	Newest photo URL per collection; a collection that is empty or fails to resolve maps to null
//	@Tags			photos
//	@Produce		json
//	@Param			collections	query		string					true	"Comma-separated collection names"
//	@Success		200			{object}	models.CoversResponse
//	@Failure		400			{object}	models.CoversResponse	"Missing collections parameter"
//	@Failure		500			{object}	models.CoversResponse	"Internal Server Error"
//	@Router			/api/photos/covers [get]
func (h *Handler) HandleCovers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rw := &responseState{ResponseWriter: w}
	w = rw
	defer recoverWith(rw, "Covers", models.CoversResponse{
		Covers: map[string]*string{},
		Error:  "Failed to fetch covers",
	})

	param := r.URL.Query().Get("collections")
	if strings.TrimSpace(param) == "" {
		writeJSON(w, http.StatusBadRequest, models.CoversResponse{
			Covers: map[string]*string{},
			Error:  "Collections parameter is required",
		}, "Covers")
		return
	}

	collections := parseCollections(param)
	covers := services.ResolveCovers(r.Context(), h.photos, collections, h.coverConcurrency)

	log.Printf("[Covers] Resolved %d covers in %v", len(covers), time.Since(start))

	w.Header().Set("Cache-Control", publicCacheControl)
	writeJSON(w, http.StatusOK, models.CoversResponse{
		Covers:  covers,
		Success: true,
		Expires: utils.FormatISO(h.now().Add(listingExpiry)),
	}, "Covers")
}

// parseCollections splits a comma-separated list and sanitizes each name.
// Names are keyed by their sanitized form; names that sanitize to nothing
// are dropped, as are duplicates.
func parseCollections(param string) []string {
	var collections []string
	seen := make(map[string]bool)
	for _, name := range strings.Split(param, ",") {
		name = utils.SanitizeCollection(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		collections = append(collections, name)
	}
	return collections
}
