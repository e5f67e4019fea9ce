package client

import (
	"context"
	"maps"
	"slices"
	"sync"

	"portfolio-api/internal/models"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type PhotoSource interface {
	FetchPhotos(ctx context.Context, collection string) ([]models.SecurePhoto, error)
}

type CoverSource interface {
	FetchCovers(ctx context.Context, collections []string) (map[string]*string, error)
}

type PhotoState struct {
	Status Status
	Photos []models.SecurePhoto
	Err    string
}

// PhotoFeed holds the photos of one collection through the
// idle → loading → success | error cycle. A failed load never keeps
// photos from an earlier success.
type PhotoFeed struct {
	source PhotoSource

	mu         sync.Mutex
	collection string
	generation uint64 // bumped per load; older results are dropped
	state      PhotoState
}

func NewPhotoFeed(source PhotoSource, collection string) *PhotoFeed {
	return &PhotoFeed{
		source:     source,
		collection: collection,
		state:      PhotoState{Photos: []models.SecurePhoto{}},
	}
}

// Load fetches the current collection and returns the resulting state.
// If the collection changes while the fetch is in flight, the late result
// is discarded.
func (f *PhotoFeed) Load(ctx context.Context) PhotoState {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	collection := f.collection

	if collection == "" {
		f.state = PhotoState{Status: StatusError, Photos: []models.SecurePhoto{}, Err: "Collection name is required"}
		f.mu.Unlock()
		return f.State()
	}
	f.state.Status = StatusLoading
	f.state.Err = ""
	f.mu.Unlock()

	photos, err := f.source.FetchPhotos(ctx, collection)

	f.mu.Lock()
	if gen == f.generation {
		if err != nil {
			f.state = PhotoState{Status: StatusError, Photos: []models.SecurePhoto{}, Err: errorMessage(err, "Failed to load photos")}
		} else {
			if photos == nil {
				photos = []models.SecurePhoto{}
			}
			f.state = PhotoState{Status: StatusSuccess, Photos: photos}
		}
	}
	f.mu.Unlock()

	return f.State()
}

// Refetch reloads without changing the collection.
func (f *PhotoFeed) Refetch(ctx context.Context) PhotoState {
	return f.Load(ctx)
}

// SetCollection switches collections and reloads. Setting the current
// collection again is a no-op.
func (f *PhotoFeed) SetCollection(ctx context.Context, collection string) PhotoState {
	f.mu.Lock()
	if collection == f.collection && f.state.Status != StatusIdle {
		f.mu.Unlock()
		return f.State()
	}
	f.collection = collection
	f.mu.Unlock()

	return f.Load(ctx)
}

func (f *PhotoFeed) State() PhotoState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.state
	state.Photos = slices.Clone(f.state.Photos)
	return state
}

type CoverState struct {
	Status Status
	Covers map[string]*string
	Err    string
}

// CoverFeed holds the covers of a set of collections, following the same
// cycle as PhotoFeed.
type CoverFeed struct {
	source CoverSource

	mu          sync.Mutex
	collections []string
	generation  uint64
	state       CoverState
}

func NewCoverFeed(source CoverSource, collections []string) *CoverFeed {
	return &CoverFeed{
		source:      source,
		collections: slices.Clone(collections),
		state:       CoverState{Covers: map[string]*string{}},
	}
}

// Load fetches covers for the current collections. With no collections
// there is nothing to fetch and the feed settles on an empty map.
func (f *CoverFeed) Load(ctx context.Context) CoverState {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	collections := slices.Clone(f.collections)

	if len(collections) == 0 {
		f.state = CoverState{Status: StatusSuccess, Covers: map[string]*string{}}
		f.mu.Unlock()
		return f.State()
	}
	f.state.Status = StatusLoading
	f.state.Err = ""
	f.mu.Unlock()

	covers, err := f.source.FetchCovers(ctx, collections)

	f.mu.Lock()
	if gen == f.generation {
		if err != nil {
			f.state = CoverState{Status: StatusError, Covers: map[string]*string{}, Err: errorMessage(err, "Failed to load collection covers")}
		} else {
			if covers == nil {
				covers = map[string]*string{}
			}
			f.state = CoverState{Status: StatusSuccess, Covers: covers}
		}
	}
	f.mu.Unlock()

	return f.State()
}

func (f *CoverFeed) Refetch(ctx context.Context) CoverState {
	return f.Load(ctx)
}

// SetCollections reloads only when the list actually changes.
func (f *CoverFeed) SetCollections(ctx context.Context, collections []string) CoverState {
	f.mu.Lock()
	if slices.Equal(collections, f.collections) && f.state.Status != StatusIdle {
		f.mu.Unlock()
		return f.State()
	}
	f.collections = slices.Clone(collections)
	f.mu.Unlock()

	return f.Load(ctx)
}

func (f *CoverFeed) State() CoverState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.state
	state.Covers = maps.Clone(f.state.Covers)
	return state
}

func errorMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
