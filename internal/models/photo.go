package models

import "time"

// ObjectInfo is what a blob listing yields for one stored object.
type ObjectInfo struct {
	Name         string
	LastModified time.Time
	Size         int64
	Metadata     map[string]string // Custom object metadata, keys as stored
}

// SignedURL is a read-only, HTTPS-only URL valid until ExpiresAt.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

type PhotoMetadata struct {
	Date     string `json:"date,omitempty"` // ISO timestamp, defaults to last-modified
	Camera   string `json:"camera,omitempty"`
	Location string `json:"location,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
}

// SecurePhoto is computed fresh on every listing and never persisted.
type SecurePhoto struct {
	ID           string         `json:"id"` // Object path, unique within the container
	SecureURL    string         `json:"secureUrl"`
	ThumbnailURL string         `json:"thumbnailUrl,omitempty"`
	Title        string         `json:"title"`
	Collection   string         `json:"collection"`
	ExpiresAt    time.Time      `json:"expiresAt"`
	Metadata     *PhotoMetadata `json:"metadata,omitempty"`
}

// Expired reports whether the signed URL is no longer valid at now.
func (p SecurePhoto) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

type PhotosResponse struct {
	Photos     []SecurePhoto `json:"photos"`
	Success    bool          `json:"success"`
	Collection string        `json:"collection,omitempty"`
	Count      int           `json:"count"`
	Expires    string        `json:"expires,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// CoversResponse maps each collection to its cover URL, or null when
// the collection is empty or its lookup failed.
type CoversResponse struct {
	Covers  map[string]*string `json:"covers"`
	Success bool               `json:"success"`
	Expires string             `json:"expires,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type RefreshResponse struct {
	Success   bool       `json:"success"`
	ID        string     `json:"id,omitempty"`
	SecureURL string     `json:"secureUrl,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type MetadataResponse struct {
	Success  bool              `json:"success"`
	ID       string            `json:"id,omitempty"`
	Metadata map[string]string `json:"metadata"`
	Error    string            `json:"error,omitempty"`
}
