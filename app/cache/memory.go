package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// MemoryStore keeps pages in process memory.
type MemoryStore struct {
	cache *ristretto.Cache[string, []byte]
}

// NewMemoryStore builds a ristretto cache bounded to maxBytes of page data.
func NewMemoryStore(maxBytes int64) (*MemoryStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e4,
		MaxCost:     maxBytes,
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %v", err)
	}
	return &MemoryStore{cache: c}, nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := m.cache.Get(key)
	return value, ok, nil
}

// Set stores value and waits for the write buffer to drain so the entry is
// visible to the next Get.
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.SetWithTTL(key, value, int64(len(value)), ttl)
	m.cache.Wait()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.cache.Clear()
	return nil
}

func (m *MemoryStore) Close() {
	m.cache.Close()
}
