package router

import (
	"net/http"

	"portfolio-api/internal/handlers"
)

// Setup configures and returns the HTTP router with all application routes.
// Literal photo routes take precedence over the {collection} wildcard.
func Setup(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Photo endpoints
	mux.HandleFunc("GET /api/photos/covers", h.HandleCovers)
	mux.HandleFunc("GET /api/photos/refresh", h.HandleRefresh)
	mux.HandleFunc("GET /api/photos/metadata", h.HandleMetadata)
	mux.HandleFunc("GET /api/photos/{collection}", h.HandlePhotos)
	mux.HandleFunc("GET /api/photos/{$}", h.HandlePhotos) // empty collection, rejected with 400

	return mux
}
