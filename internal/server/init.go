package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"portfolio-api/internal/config"
	apperrors "portfolio-api/internal/errors"
	"portfolio-api/internal/handlers"
	"portfolio-api/internal/middleware"
	"portfolio-api/internal/router"
	"portfolio-api/internal/services"
)

// Services holds all initialized services for the application
type Services struct {
	Store  services.BlobStore // nil when storage is not configured
	Photos *services.PhotoService
}

// OpenContainer connects to the configured photo container. It returns
// ErrNotConfigured when the selected provider has no credentials.
func OpenContainer(ctx context.Context, cfg *config.Config) (services.BlobStore, error) {
	if !cfg.StorageConfigured() {
		return nil, fmt.Errorf("%w: no credentials for provider %q", apperrors.ErrNotConfigured, cfg.StorageProvider)
	}

	switch cfg.StorageProvider {
	case config.ProviderGCS:
		credentials := []byte(cfg.GCSCredentialsJSON)
		if len(credentials) == 0 {
			// Use credentials file (for local development)
			var err error
			credentials, err = os.ReadFile(cfg.GCSCredentialsPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read GCS credentials: %w", err)
			}
		}
		store, err := services.NewGCSContainer(ctx, cfg.ContainerName, credentials)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.ProviderS3:
		store, err := services.NewS3Container(services.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.ContainerName,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}

// InitServices initializes all application services based on configuration.
// A container that cannot be opened leaves the API running in degraded mode:
// listings are empty and covers are null until storage is provisioned.
func InitServices(ctx context.Context, cfg *config.Config) *Services {
	store, err := OpenContainer(ctx, cfg)
	if err != nil {
		log.Printf("⚠️  [Storage] Running without photo storage: %v", err)
	} else {
		log.Printf("[Storage] Using %s container %q", cfg.StorageProvider, cfg.ContainerName)
	}

	return &Services{
		Store:  store,
		Photos: services.NewPhotoService(store, cfg.SignedURLTTL, cfg.StorageTimeout),
	}
}

// Close releases the storage client, if it holds one.
func (s *Services) Close() error {
	if closer, ok := s.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// CreateHandler creates an HTTP handler with all middleware applied.
// The rate limiter's idle-visitor cleanup runs until ctx ends.
func CreateHandler(ctx context.Context, svcs *Services, cfg *config.Config) http.Handler {
	// Initialize handlers
	h := handlers.New(svcs.Photos, cfg.CoverConcurrency)

	// Setup router
	mux := router.Setup(h)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go limiter.Cleanup(ctx, time.Minute)

	// Apply global middleware, innermost first
	wrapped := limiter.Limit(mux)
	wrapped = middleware.CORS(wrapped, cfg.AllowedOrigins)
	wrapped = middleware.Recover(wrapped)
	wrapped = middleware.Logger(wrapped)
	wrapped = middleware.RequestID(wrapped)

	return wrapped
}
