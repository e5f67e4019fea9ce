package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "portfolio-api/internal/errors"
	"portfolio-api/internal/models"
)

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Container is a BlobStore backed by an S3-compatible bucket (AWS S3, MinIO).
// The client always speaks TLS so presigned URLs are HTTPS-only.
type S3Container struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewS3Container(cfg S3Config) (*S3Container, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return &S3Container{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// Lists all objects under prefix. The client pages through the listing itself.
func (s *S3Container) ListObjects(ctx context.Context, prefix string) ([]models.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // stops the listing goroutine on early return

	var objects []models.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %q: %w", prefix, obj.Err)
		}
		objects = append(objects, models.ObjectInfo{
			Name:         obj.Key,
			LastModified: obj.LastModified,
			Size:         obj.Size,
			Metadata:     userMetadata(obj.UserMetadata),
		})
	}

	return objects, nil
}

// Presigns a GET locally; no request is made.
func (s *S3Container) SignURL(ctx context.Context, objectPath string, ttl time.Duration) (models.SignedURL, error) {
	expiresAt := s.now().Add(ttl)
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, ttl, url.Values{})
	if err != nil {
		return models.SignedURL{}, fmt.Errorf("%w: presign %q: %v", apperrors.ErrStorageUnavailable, objectPath, err)
	}
	if u.Scheme != "https" {
		return models.SignedURL{}, fmt.Errorf("%w: presigned URL for %q is not HTTPS", apperrors.ErrStorageUnavailable, objectPath)
	}
	return models.SignedURL{URL: u.String(), ExpiresAt: expiresAt}, nil
}

func (s *S3Container) ObjectMetadata(ctx context.Context, objectPath string) (map[string]string, error) {
	info, err := s.client.StatObject(ctx, s.bucket, objectPath, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat %q: %w", objectPath, err)
	}
	return userMetadata(info.UserMetadata), nil
}

// S3 reports custom metadata with an "X-Amz-Meta-" prefix on some paths;
// callers only ever see the bare key.
func userMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if len(k) > len("x-amz-meta-") && strings.EqualFold(k[:len("x-amz-meta-")], "x-amz-meta-") {
			k = k[len("x-amz-meta-"):]
		}
		out[k] = v
	}
	return out
}
