package utils

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	apperrors "portfolio-api/internal/errors"
)

var (
	disallowedCollectionChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	imageExtension            = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)
)

// SanitizeCollection strips every character outside [A-Za-z0-9_-].
func SanitizeCollection(name string) string {
	return disallowedCollectionChars.ReplaceAllString(name, "")
}

// CollectionPrefix maps a collection name to its storage prefix.
func CollectionPrefix(collection string) string {
	return collection + "/"
}

// IsImageName checks the object name against the allowed image extensions
// (jpg, jpeg, png, webp), case-insensitively.
func IsImageName(name string) bool {
	return imageExtension.MatchString(name)
}

// ParsePhotoID validates a photo id of the form "{collection}/{file}" and
// returns its collection. The collection must already be sanitized and the
// file must be a single image path segment.
func ParsePhotoID(id string) (string, error) {
	collection, file, ok := strings.Cut(id, "/")
	if !ok || collection == "" || file == "" {
		return "", fmt.Errorf("%w: photo id must look like collection/file", apperrors.ErrInvalidInput)
	}
	if SanitizeCollection(collection) != collection {
		return "", fmt.Errorf("%w: invalid collection name", apperrors.ErrInvalidInput)
	}
	if strings.ContainsAny(file, "/\\") || file != path.Clean(file) || strings.HasPrefix(file, ".") {
		return "", fmt.Errorf("%w: invalid file name", apperrors.ErrInvalidInput)
	}
	if !IsImageName(file) {
		return "", fmt.Errorf("%w: not an image", apperrors.ErrInvalidInput)
	}
	return collection, nil
}
