package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio-api/internal/models"
	"portfolio-api/internal/utils"
)

// HandlePhotos lists the photos of one collection with freshly signed URLs.
//
//	@Summary		List collection photos
//	@Description	List every image in a collection, newest first, each with a 24h signed URL
//	@Tags			photos
//	@Produce		json
//	@Param			collection	path		string					true	"Collection name ([A-Za-z0-9_-])"
//	@Success		200			{object}	models.PhotosResponse
//	@Failure		400			{object}	models.PhotosResponse	"Missing or invalid collection"
//	@Failure		500			{object}	models.PhotosResponse	"Internal Server Error"
//	@Router			/api/photos/{collection} [get]
func (h *Handler) HandlePhotos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	raw := r.PathValue("collection")

	rw := &responseState{ResponseWriter: w}
	w = rw
	defer recoverWith(rw, "Photos", models.PhotosResponse{
		Photos:     []models.SecurePhoto{},
		Error:      "Failed to fetch photos",
		Collection: raw,
	})

	if strings.TrimSpace(raw) == "" {
		writeJSON(w, http.StatusBadRequest, models.PhotosResponse{
			Photos: []models.SecurePhoto{},
			Error:  "Collection name is required",
		}, "Photos")
		return
	}

	collection := utils.SanitizeCollection(raw)
	if collection != raw {
		log.Printf("[Photos] Security: Rejected collection name %q", raw)
		writeJSON(w, http.StatusBadRequest, models.PhotosResponse{
			Photos: []models.SecurePhoto{},
			Error:  "Invalid collection name",
		}, "Photos")
		return
	}

	photos, err := h.photos.ListCollectionPhotos(r.Context(), collection)
	if err != nil {
		log.Printf("[Photos] Failed to list %q: %v", raw, err)
		writeJSON(w, http.StatusInternalServerError, models.PhotosResponse{
			Photos:     []models.SecurePhoto{},
			Error:      "Failed to fetch photos",
			Collection: raw,
		}, "Photos")
		return
	}
	if photos == nil {
		photos = []models.SecurePhoto{}
	}

	log.Printf("[Photos] Served %d photos for %q in %v", len(photos), collection, time.Since(start))

	w.Header().Set("Cache-Control", publicCacheControl)
	writeJSON(w, http.StatusOK, models.PhotosResponse{
		Photos:     photos,
		Success:    true,
		Collection: collection,
		Count:      len(photos),
		Expires:    utils.FormatISO(h.now().Add(listingExpiry)),
	}, "Photos")
}
