// Package cache holds rendered pages for a bounded time.
package cache

import (
	"context"
	"log"
	"time"
)

// IndexPageKey is the single key the index page is cached under. Query string
// and actor are not part of it.
const IndexPageKey = "index_page"

// Store is a byte cache with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Remember returns the cached bytes for key, or calls render and caches its
// output for ttl. A failing cache never fails the request: lookup and store
// errors are logged and the rendered bytes are served. Render errors are not
// cached.
func Remember(ctx context.Context, store Store, key string, ttl time.Duration, render func() ([]byte, error)) ([]byte, error) {
	if body, ok, err := store.Get(ctx, key); err != nil {
		log.Printf("cache get %q: %v", key, err)
	} else if ok {
		return body, nil
	}

	body, err := render()
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, key, body, ttl); err != nil {
		log.Printf("cache set %q: %v", key, err)
	}
	return body, nil
}
