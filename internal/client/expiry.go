package client

import (
	"context"
	"sync/atomic"
	"time"

	"portfolio-api/internal/models"
)

// DefaultExpiryInterval is how often an ExpiryWatcher re-checks the clock.
const DefaultExpiryInterval = time.Minute

// ExpiryWatcher tracks whether a photo's signed URL has expired.
// It only compares clocks; it never calls the API.
type ExpiryWatcher struct {
	photo    models.SecurePhoto
	interval time.Duration
	now      func() time.Time
	expired  atomic.Bool
}

func NewExpiryWatcher(photo models.SecurePhoto, interval time.Duration) *ExpiryWatcher {
	if interval <= 0 {
		interval = DefaultExpiryInterval
	}
	return &ExpiryWatcher{photo: photo, interval: interval, now: time.Now}
}

// Run checks once immediately and then every interval until ctx ends.
func (w *ExpiryWatcher) Run(ctx context.Context) {
	w.check()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *ExpiryWatcher) Expired() bool {
	return w.expired.Load()
}

func (w *ExpiryWatcher) check() {
	w.expired.Store(w.photo.Expired(w.now()))
}
