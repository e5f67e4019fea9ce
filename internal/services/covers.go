package services

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CoverResolver looks up the cover URL of one collection.
type CoverResolver interface {
	CollectionCover(ctx context.Context, collection string) (*string, error)
}

// ResolveCovers looks up every collection concurrently, at most limit at a
// time. A failing or panicking lookup maps to nil for its own key and never
// affects the others.
func ResolveCovers(ctx context.Context, resolver CoverResolver, collections []string, limit int) map[string]*string {
	covers := make(map[string]*string, len(collections))
	var mu sync.Mutex

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, collection := range collections {
		g.Go(func() error {
			url := lookupCover(ctx, resolver, collection)

			mu.Lock()
			covers[collection] = url
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return covers
}

func lookupCover(ctx context.Context, resolver CoverResolver, collection string) (url *string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Covers] Lookup for %q panicked: %v", collection, r)
			url = nil
		}
	}()

	url, err := resolver.CollectionCover(ctx, collection)
	if err != nil {
		log.Printf("[Covers] Error getting cover for collection %q: %v", collection, err)
		return nil
	}
	return url
}
