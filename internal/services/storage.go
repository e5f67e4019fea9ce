package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	apperrors "portfolio-api/internal/errors"
	"portfolio-api/internal/models"
)

// BlobStore is a read-only handle on one container. Implementations must be
// safe for concurrent use.
type BlobStore interface {
	// ListObjects returns every object under prefix, driving pagination to exhaustion.
	ListObjects(ctx context.Context, prefix string) ([]models.ObjectInfo, error)
	// SignURL issues a read-only, HTTPS-only URL for objectPath valid for ttl.
	SignURL(ctx context.Context, objectPath string, ttl time.Duration) (models.SignedURL, error)
	// ObjectMetadata returns the custom metadata of one object.
	ObjectMetadata(ctx context.Context, objectPath string) (map[string]string, error)
}

// GCSContainer is a BlobStore backed by a Google Cloud Storage bucket.
type GCSContainer struct {
	client     *storage.Client
	bucketName string
	accessID   string // Service account email used as the signing identity
	privateKey []byte // PEM key; when set, signing never leaves the process
	now        func() time.Time
}

// Subset of a service account key file needed for local URL signing.
type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// NewGCSContainer creates a storage client bound to bucketName from service
// account JSON. It does not contact the bucket; failures surface on first use.
func NewGCSContainer(ctx context.Context, bucketName string, credentialsJSON []byte, opts ...option.ClientOption) (*GCSContainer, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(credentialsJSON, &key); err != nil {
		return nil, fmt.Errorf("failed to parse GCS credentials: %w", err)
	}

	opts = append([]option.ClientOption{option.WithCredentialsJSON(credentialsJSON)}, opts...)
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSContainer{
		client:     client,
		bucketName: bucketName,
		accessID:   key.ClientEmail,
		privateKey: []byte(key.PrivateKey),
		now:        time.Now,
	}, nil
}

func (s *GCSContainer) Close() error {
	return s.client.Close()
}

// Lists all objects under prefix.
func (s *GCSContainer) ListObjects(ctx context.Context, prefix string) ([]models.ObjectInfo, error) {
	query := &storage.Query{Prefix: prefix}
	if err := query.SetAttrSelection([]string{"Name", "Updated", "Size", "Metadata"}); err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	it := s.client.Bucket(s.bucketName).Objects(ctx, query)

	var objects []models.ObjectInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %q: %w", prefix, err)
		}

		objects = append(objects, models.ObjectInfo{
			Name:         attrs.Name,
			LastModified: attrs.Updated,
			Size:         attrs.Size,
			Metadata:     attrs.Metadata,
		})
	}

	return objects, nil
}

// Issues a V4 GET URL. Signing is local when the credentials carry a private
// key; otherwise the library calls IAM signBlob, which gets one retry on
// rate limiting or server errors.
func (s *GCSContainer) SignURL(ctx context.Context, objectPath string, ttl time.Duration) (models.SignedURL, error) {
	expiresAt := s.now().Add(ttl)
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: expiresAt,
	}
	if s.accessID != "" && len(s.privateKey) > 0 {
		opts.GoogleAccessID = s.accessID
		opts.PrivateKey = s.privateKey
	}

	var signed string
	err := retryOnce(ctx, func() error {
		var err error
		signed, err = s.client.Bucket(s.bucketName).SignedURL(objectPath, opts)
		return err
	})
	if err != nil {
		return models.SignedURL{}, fmt.Errorf("%w: sign %q: %v", apperrors.ErrStorageUnavailable, objectPath, err)
	}
	if !strings.HasPrefix(signed, "https://") {
		return models.SignedURL{}, fmt.Errorf("%w: signed URL for %q is not HTTPS", apperrors.ErrStorageUnavailable, objectPath)
	}

	return models.SignedURL{URL: signed, ExpiresAt: expiresAt}, nil
}

// Reads custom metadata without downloading the object.
func (s *GCSContainer) ObjectMetadata(ctx context.Context, objectPath string) (map[string]string, error) {
	attrs, err := s.client.Bucket(s.bucketName).Object(objectPath).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read attributes of %q: %w", objectPath, err)
	}
	return attrs.Metadata, nil
}

// signRetryBackoff is the base wait before the second signing attempt; a
// random jitter of up to the same amount is added.
var signRetryBackoff = 200 * time.Millisecond

// retryOnce runs op and, on a retryable failure, waits a jittered backoff and
// runs it once more. A ctx that ends during the wait returns the first error.
func retryOnce(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !isRetryable(err) {
		return err
	}

	wait := signRetryBackoff + rand.N(signRetryBackoff+1)
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return err
	case <-timer.C:
	}
	return op()
}

// Rate limits and server errors from Google APIs are worth a second try.
func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	return false
}
