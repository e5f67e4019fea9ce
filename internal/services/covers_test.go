package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type coverFunc func(ctx context.Context, collection string) (*string, error)

func (f coverFunc) CollectionCover(ctx context.Context, collection string) (*string, error) {
	return f(ctx, collection)
}

func strPtr(s string) *string { return &s }

func TestResolveCovers_IsolatesFailures(t *testing.T) {
	resolver := coverFunc(func(ctx context.Context, collection string) (*string, error) {
		switch collection {
		case "bad":
			return nil, errors.New("listing exploded")
		case "worse":
			panic("nil map write")
		case "empty":
			return nil, nil
		default:
			return strPtr("https://cdn.example/" + collection), nil
		}
	})

	covers := ResolveCovers(context.Background(), resolver, []string{"good", "bad", "good2", "worse", "empty"}, 2)

	assert.Len(t, covers, 5)
	assert.Equal(t, "https://cdn.example/good", *covers["good"])
	assert.Equal(t, "https://cdn.example/good2", *covers["good2"])
	assert.Nil(t, covers["bad"])
	assert.Nil(t, covers["worse"])
	assert.Nil(t, covers["empty"])
	assert.Contains(t, covers, "bad")
}

func TestResolveCovers_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	resolver := coverFunc(func(ctx context.Context, collection string) (*string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		return strPtr(collection), nil
	})

	covers := ResolveCovers(context.Background(), resolver, []string{"a", "b", "c", "d"}, 4)

	assert.Len(t, covers, 4)
	assert.Greater(t, peak.Load(), int32(1))
	assert.LessOrEqual(t, peak.Load(), int32(4))
}
