package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"portfolio-api/internal/models"
)

func galleryServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/photos/{collection}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		collection := r.PathValue("collection")
		if collection == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"photos": []any{}, "success": false, "error": "storage exploded"})
			return
		}
		json.NewEncoder(w).Encode(models.PhotosResponse{
			Photos: []models.SecurePhoto{{
				ID:         collection + "/img_001.jpg",
				SecureURL:  "https://storage.example/" + collection + "/img_001.jpg",
				Collection: collection,
				ExpiresAt:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			}},
			Success:    true,
			Collection: collection,
			Count:      1,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_ExitCodes(t *testing.T) {
	srv := galleryServer(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no action is a usage error", args: nil, want: 2},
		{name: "unknown flag", args: []string{"-nope"}, want: 2},
		{name: "help", args: []string{"-h"}, want: 0},
		{name: "listing succeeds", args: []string{"-api", srv.URL, "-collection", "nyc-2025"}, want: 0},
		{name: "listing fails", args: []string{"-api", srv.URL, "-collection", "broken"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.want, run(tt.args, &out))
		})
	}
}

func TestRun_PrintsListing(t *testing.T) {
	srv := galleryServer(t)

	var out bytes.Buffer
	code := run([]string{"-api", srv.URL, "-collection", "nyc-2025"}, &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "nyc-2025: 1 photos")
	assert.Contains(t, out.String(), "nyc-2025/img_001.jpg")
}
