package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "portfolio-api/internal/errors"
	"portfolio-api/internal/handlers"
	"portfolio-api/internal/models"
	"portfolio-api/internal/router"
)

type fakePhotos struct {
	photos     map[string][]models.SecurePhoto
	listErr    error
	panicOn    string
	coverErrOn string
	refreshErr error
	metadata   map[string]string
	configured bool
	listedWith []string
}

func (f *fakePhotos) ListCollectionPhotos(ctx context.Context, collection string) ([]models.SecurePhoto, error) {
	f.listedWith = append(f.listedWith, collection)
	if collection == f.panicOn {
		panic("unexpected nil")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.photos[collection], nil
}

func (f *fakePhotos) CollectionCover(ctx context.Context, collection string) (*string, error) {
	if collection == f.coverErrOn {
		return nil, errors.New("listing failed")
	}
	photos := f.photos[collection]
	if len(photos) == 0 {
		return nil, nil
	}
	return &photos[0].SecureURL, nil
}

func (f *fakePhotos) RefreshPhotoURL(ctx context.Context, photoID string) (models.SignedURL, error) {
	if f.refreshErr != nil {
		return models.SignedURL{}, f.refreshErr
	}
	return models.SignedURL{URL: "https://storage.example/" + photoID, ExpiresAt: time.Now().Add(24 * time.Hour)}, nil
}

func (f *fakePhotos) PhotoMetadata(ctx context.Context, photoID string) map[string]string {
	return f.metadata
}

func (f *fakePhotos) Configured() bool { return f.configured }

func securePhoto(collection, file string) models.SecurePhoto {
	id := collection + "/" + file
	return models.SecurePhoto{
		ID:         id,
		SecureURL:  "https://storage.example/" + id,
		Title:      file,
		Collection: collection,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
}

func serve(t *testing.T, svc handlers.PhotoService, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := router.Setup(handlers.New(svc, 4))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var body T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHandlePhotos_Validation(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{"empty collection", "/api/photos/", http.StatusBadRequest, "Collection name is required"},
		{"encoded traversal", "/api/photos/..%2Fsecrets", http.StatusBadRequest, "Invalid collection name"},
		{"disallowed characters", "/api/photos/foo!", http.StatusBadRequest, "Invalid collection name"},
		{"blank", "/api/photos/%20%20", http.StatusBadRequest, "Collection name is required"},
		{"valid but empty", "/api/photos/vacation-2024", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePhotos{}
			rec := serve(t, svc, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[map[string]any](t, rec)
			assert.Equal(t, []any{}, body["photos"])
			if tt.wantError != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantError, body["error"])
				assert.Empty(t, svc.listedWith)
			} else {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, float64(0), body["count"])
			}
		})
	}
}

func TestHandlePhotos_Success(t *testing.T) {
	svc := &fakePhotos{photos: map[string][]models.SecurePhoto{
		"nyc-2025": {securePhoto("nyc-2025", "img_002.png"), securePhoto("nyc-2025", "IMG_001.jpg")},
	}}

	rec := serve(t, svc, "/api/photos/nyc-2025")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-maxage=3600, stale-while-revalidate=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[models.PhotosResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "nyc-2025", body.Collection)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Photos, 2)
	assert.Equal(t, "nyc-2025/img_002.png", body.Photos[0].ID)
	assert.Equal(t, "nyc-2025/IMG_001.jpg", body.Photos[1].ID)

	expires, err := time.Parse(time.RFC3339, body.Expires)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expires, time.Minute)
}

func TestHandlePhotos_Failures(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		rec := serve(t, &fakePhotos{listErr: context.Canceled}, "/api/photos/nyc-2025")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, []any{}, body["photos"])
		assert.Equal(t, "nyc-2025", body["collection"])
		assert.Empty(t, rec.Header().Get("Cache-Control"))
	})

	t.Run("panic", func(t *testing.T) {
		rec := serve(t, &fakePhotos{panicOn: "nyc-2025"}, "/api/photos/nyc-2025")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode[models.PhotosResponse](t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, "nyc-2025", body.Collection)
	})
}

func TestHandleCovers(t *testing.T) {
	svc := &fakePhotos{
		photos: map[string][]models.SecurePhoto{
			"good":  {securePhoto("good", "a.jpg")},
			"good2": {securePhoto("good2", "b.jpg")},
		},
		coverErrOn: "bad",
	}

	rec := serve(t, svc, "/api/photos/covers?collections=good,bad,good2,empty")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-maxage=3600, stale-while-revalidate=86400", rec.Header().Get("Cache-Control"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["expires"])
	assert.Equal(t, map[string]any{
		"good":  "https://storage.example/good/a.jpg",
		"bad":   nil,
		"good2": "https://storage.example/good2/b.jpg",
		"empty": nil,
	}, body["covers"])
}

func TestHandleCovers_SanitizesNames(t *testing.T) {
	svc := &fakePhotos{photos: map[string][]models.SecurePhoto{
		"foo": {securePhoto("foo", "a.jpg")},
	}}

	rec := serve(t, svc, "/api/photos/covers?collections=foo!,%20foo%20,,%21%21")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[models.CoversResponse](t, rec)
	require.Len(t, body.Covers, 1)
	require.NotNil(t, body.Covers["foo"])
	assert.Equal(t, "https://storage.example/foo/a.jpg", *body.Covers["foo"])
}

func TestHandleCovers_MissingParameter(t *testing.T) {
	for _, target := range []string{"/api/photos/covers", "/api/photos/covers?collections="} {
		rec := serve(t, &fakePhotos{}, target)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, map[string]any{}, body["covers"])
		assert.Equal(t, "Collections parameter is required", body["error"])
	}
}

func TestHandleRefresh(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		refreshErr error
		wantStatus int
	}{
		{"ok", "/api/photos/refresh?id=nyc-2025/IMG_001.jpg", nil, http.StatusOK},
		{"missing id", "/api/photos/refresh", nil, http.StatusBadRequest},
		{"traversal", "/api/photos/refresh?id=nyc-2025/../secrets.jpg", nil, http.StatusBadRequest},
		{"not an image", "/api/photos/refresh?id=nyc-2025/notes.txt", nil, http.StatusBadRequest},
		{
			"not configured", "/api/photos/refresh?id=nyc-2025/IMG_001.jpg",
			fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, apperrors.ErrNotConfigured),
			http.StatusServiceUnavailable,
		},
		{
			"signing failed", "/api/photos/refresh?id=nyc-2025/IMG_001.jpg",
			fmt.Errorf("%w: key rejected", apperrors.ErrStorageUnavailable),
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakePhotos{refreshErr: tt.refreshErr}, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			body := decode[models.RefreshResponse](t, rec)
			assert.Equal(t, tt.wantStatus == http.StatusOK, body.Success)
			if body.Success {
				assert.Equal(t, "https://storage.example/nyc-2025/IMG_001.jpg", body.SecureURL)
				require.NotNil(t, body.ExpiresAt)
				assert.True(t, body.ExpiresAt.After(time.Now()))
			} else {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestHandleMetadata(t *testing.T) {
	rec := serve(t, &fakePhotos{metadata: map[string]string{"camera": "Sony A7"}}, "/api/photos/metadata?id=nyc-2025/IMG_001.jpg")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[models.MetadataResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, map[string]string{"camera": "Sony A7"}, body.Metadata)

	rec = serve(t, &fakePhotos{}, "/api/photos/metadata?id=nyc-2025/IMG_001.jpg")
	require.Equal(t, http.StatusOK, rec.Code)
	raw := decode[map[string]any](t, rec)
	assert.Contains(t, raw, "metadata")
	assert.Nil(t, raw["metadata"])

	rec = serve(t, &fakePhotos{}, "/api/photos/metadata?id=bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := serve(t, &fakePhotos{}, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok", "storage": "unconfigured"}, decode[map[string]string](t, rec))

	rec = serve(t, &fakePhotos{configured: true}, "/health")
	assert.Equal(t, "configured", decode[map[string]string](t, rec)["storage"])
}

func TestRouter_RejectsOtherMethods(t *testing.T) {
	mux := router.Setup(handlers.New(&fakePhotos{}, 4))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/nyc-2025", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
