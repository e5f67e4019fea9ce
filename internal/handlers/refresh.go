package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	apperrors "portfolio-api/internal/errors"
	"portfolio-api/internal/models"
	"portfolio-api/internal/utils"
)

// HandleRefresh re-issues the signed URL of a single photo.
//
//	@Summary		Refresh a photo URL
//	@Description	Issue a new 24h signed URL for a photo id of the form collection/file
//	@Tags			photos
//	@Produce		json
//	@Param			id	query		string					true	"Photo id"
//	@Success		200	{object}	models.RefreshResponse
//	@Failure		400	{object}	models.RefreshResponse	"Invalid photo id"
//	@Failure		500	{object}	models.RefreshResponse	"Signing failed"
//	@Failure		503	{object}	models.RefreshResponse	"Storage not configured"
//	@Router			/api/photos/refresh [get]
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if _, err := utils.ParsePhotoID(id); err != nil {
		log.Printf("[Refresh] Rejected id %q: %v", id, err)
		writeJSON(w, http.StatusBadRequest, models.RefreshResponse{Error: "Invalid photo id"}, "Refresh")
		return
	}

	signed, err := h.photos.RefreshPhotoURL(r.Context(), id)
	if err != nil {
		log.Printf("[Refresh] Failed to refresh %s: %v", id, err)
		if errors.Is(err, apperrors.ErrNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, models.RefreshResponse{ID: id, Error: "Photo storage unavailable"}, "Refresh")
		} else {
			writeJSON(w, http.StatusInternalServerError, models.RefreshResponse{ID: id, Error: "Failed to refresh photo URL"}, "Refresh")
		}
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResponse{
		Success:   true,
		ID:        id,
		SecureURL: signed.URL,
		ExpiresAt: &signed.ExpiresAt,
	}, "Refresh")
}

// HandleMetadata returns the custom metadata stored on a photo.
//
//	@Summary		Photo metadata
//	@Description	Custom metadata of one photo, or null when none is available
//	@Tags			photos
//	@Produce		json
//	@Param			id	query		string					true	"Photo id"
//	@Success		200	{object}	models.MetadataResponse
//	@Failure		400	{object}	models.MetadataResponse	"Invalid photo id"
//	@Router			/api/photos/metadata [get]
func (h *Handler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if _, err := utils.ParsePhotoID(id); err != nil {
		log.Printf("[Metadata] Rejected id %q: %v", id, err)
		writeJSON(w, http.StatusBadRequest, models.MetadataResponse{Error: "Invalid photo id"}, "Metadata")
		return
	}

	w.Header().Set("Cache-Control", publicCacheControl)
	writeJSON(w, http.StatusOK, models.MetadataResponse{
		Success:  true,
		ID:       id,
		Metadata: h.photos.PhotoMetadata(r.Context(), id),
	}, "Metadata")
}
