package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"portfolio-api/internal/models"
)

const (
	// Each URL in a listing stays valid for 24h from issuance, so edges may
	// hold a listing for an hour and serve it stale for a day.
	publicCacheControl = "s-maxage=3600, stale-while-revalidate=86400"
	listingExpiry      = 24 * time.Hour
)

// PhotoService is the read side of the photo store the handlers depend on.
type PhotoService interface {
	ListCollectionPhotos(ctx context.Context, collection string) ([]models.SecurePhoto, error)
	CollectionCover(ctx context.Context, collection string) (*string, error)
	RefreshPhotoURL(ctx context.Context, photoID string) (models.SignedURL, error)
	PhotoMetadata(ctx context.Context, photoID string) map[string]string
	Configured() bool
}

type Handler struct {
	photos           PhotoService
	coverConcurrency int
	now              func() time.Time
}

func New(photos PhotoService, coverConcurrency int) *Handler {
	return &Handler{
		photos:           photos,
		coverConcurrency: coverConcurrency,
		now:              time.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any, tag string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[%s] Failed to encode response: %v", tag, err)
	}
}

// responseState records whether a response has started, so a late panic
// does not write a second status line or append to a body already sent.
type responseState struct {
	http.ResponseWriter
	started bool
}

func (s *responseState) WriteHeader(code int) {
	s.started = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *responseState) Write(b []byte) (int, error) {
	s.started = true
	return s.ResponseWriter.Write(b)
}

// recoverWith must be deferred directly. It answers a panic with a 500
// carrying body, or only logs it when the response has already started.
func recoverWith(w *responseState, tag string, body any) {
	rec := recover()
	if rec == nil {
		return
	}
	if w.started {
		log.Printf("[%s] Panic after response started: %v", tag, rec)
		return
	}
	log.Printf("[%s] Panic: %v", tag, rec)
	writeJSON(w, http.StatusInternalServerError, body, tag)
}
