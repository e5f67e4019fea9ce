package utils

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout matches JavaScript's Date.toISOString: UTC with milliseconds.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatISO renders t in UTC using ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseTimestamp accepts the date shapes found in object metadata:
// RFC 3339 (with or without fractional seconds), ISO without a zone,
// EXIF "2006:01:02 15:04:05" and a bare date.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006:01:02 15:04:05",
		time.DateOnly,
	}

	var err error
	for _, format := range formats {
		var t time.Time
		if t, err = time.Parse(format, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
}
