package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	apperrors "portfolio-api/internal/errors"
	"portfolio-api/internal/models"
	"portfolio-api/internal/utils"
)

// DefaultURLTTL is how long an issued photo URL stays valid.
const DefaultURLTTL = 24 * time.Hour

type PhotoService struct {
	store   BlobStore // nil when storage is not configured
	ttl     time.Duration
	timeout time.Duration
}

// NewPhotoService wraps an already-opened store. A nil store puts every
// operation into degraded mode: listings are empty and covers are null.
func NewPhotoService(store BlobStore, ttl, timeout time.Duration) *PhotoService {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PhotoService{store: store, ttl: ttl, timeout: timeout}
}

// Configured reports whether a store is attached.
func (s *PhotoService) Configured() bool {
	return s.store != nil
}

// IssueSignedURL mints a read-only HTTPS URL for one object, valid for ttl
// (the service TTL when ttl is zero). Fails with ErrStorageUnavailable when no
// store is attached or signing fails.
func (s *PhotoService) IssueSignedURL(ctx context.Context, objectPath string, ttl time.Duration) (models.SignedURL, error) {
	if s.store == nil {
		return models.SignedURL{}, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, apperrors.ErrNotConfigured)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	signed, err := s.store.SignURL(ctx, objectPath, ttl)
	if err != nil {
		if errors.Is(err, apperrors.ErrStorageUnavailable) {
			return models.SignedURL{}, err
		}
		return models.SignedURL{}, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}
	return signed, nil
}

// ListCollectionPhotos returns the images under "{collection}/", newest first.
// Storage failures degrade to an empty list and objects that cannot be signed
// are skipped. The only error returned is the caller's own context ending.
func (s *PhotoService) ListCollectionPhotos(ctx context.Context, collection string) ([]models.SecurePhoto, error) {
	photos := []models.SecurePhoto{}
	if s.store == nil {
		return photos, nil
	}

	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	objects, err := s.store.ListObjects(listCtx, utils.CollectionPrefix(collection))
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("[Photos] Listing %q failed, returning empty collection: %v", collection, err)
		return photos, nil
	}

	for _, obj := range objects {
		if !utils.IsImageName(obj.Name) {
			continue
		}

		signed, err := s.IssueSignedURL(ctx, obj.Name, s.ttl)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[Photos] Skipping %s: %v", obj.Name, err)
			continue
		}

		photos = append(photos, models.SecurePhoto{
			ID:         obj.Name,
			SecureURL:  signed.URL,
			Title:      utils.TitleFromPath(obj.Name),
			Collection: collection,
			ExpiresAt:  signed.ExpiresAt,
			Metadata:   buildMetadata(obj),
		})
	}

	SortNewestFirst(photos)
	return photos, nil
}

// CollectionCover returns the newest photo's URL, or nil when the collection
// is empty or cannot be read.
func (s *PhotoService) CollectionCover(ctx context.Context, collection string) (*string, error) {
	photos, err := s.ListCollectionPhotos(ctx, collection)
	if err != nil || len(photos) == 0 {
		return nil, err
	}
	return &photos[0].SecureURL, nil
}

// RefreshPhotoURL re-issues a URL for an existing photo id.
func (s *PhotoService) RefreshPhotoURL(ctx context.Context, photoID string) (models.SignedURL, error) {
	return s.IssueSignedURL(ctx, photoID, DefaultURLTTL)
}

// PhotoMetadata returns an object's custom metadata, or nil when it is
// unavailable for any reason.
func (s *PhotoService) PhotoMetadata(ctx context.Context, photoID string) map[string]string {
	if s.store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	metadata, err := s.store.ObjectMetadata(ctx, photoID)
	if err != nil {
		log.Printf("[Photos] Metadata lookup for %s failed: %v", photoID, err)
		return nil
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

// Custom metadata overrides the defaults derived from object properties.
func buildMetadata(obj models.ObjectInfo) *models.PhotoMetadata {
	meta := &models.PhotoMetadata{
		FileSize: obj.Size,
	}
	if !obj.LastModified.IsZero() {
		meta.Date = utils.FormatISO(obj.LastModified)
	}

	for key, value := range obj.Metadata {
		switch strings.ToLower(key) {
		case "date":
			meta.Date = value
		case "camera":
			meta.Camera = value
		case "location":
			meta.Location = value
		}
	}
	return meta
}

// SortNewestFirst orders photos by metadata date, most recent first.
// Parseable dates compare chronologically, so mixed precision ("…00Z" vs
// "…00.000Z") still sorts correctly. Unparseable dates follow all parseable
// ones in descending string order, and missing dates come last. Ties keep id
// order so the result is deterministic.
func SortNewestFirst(photos []models.SecurePhoto) {
	type sortKey struct {
		rank int // 2 parsed, 1 unparseable, 0 missing
		at   time.Time
		raw  string
	}

	keyOf := func(p models.SecurePhoto) sortKey {
		if p.Metadata == nil || p.Metadata.Date == "" {
			return sortKey{}
		}
		if t, err := utils.ParseTimestamp(p.Metadata.Date); err == nil {
			return sortKey{rank: 2, at: t}
		}
		return sortKey{rank: 1, raw: p.Metadata.Date}
	}

	slices.SortStableFunc(photos, func(a, b models.SecurePhoto) int {
		ka, kb := keyOf(a), keyOf(b)
		if c := cmp.Compare(kb.rank, ka.rank); c != 0 {
			return c
		}
		if c := kb.at.Compare(ka.at); c != 0 {
			return c
		}
		if c := strings.Compare(kb.raw, ka.raw); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
