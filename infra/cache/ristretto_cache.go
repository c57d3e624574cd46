// Package cache provides the two production Cache implementations: an
// in-process ristretto-backed cache for single-process deployments, and an
// optional Postgres-backed cache for sharing responses across processes.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/certen/evmscan/infra"
)

// RistrettoCache is the default in-process Cache, backed by
// github.com/dgraph-io/ristretto. Ristretto's internal sharding already
// serializes writers per key, satisfying the single-writer-per-key
// requirement without an additional lock here.
type RistrettoCache struct {
	cache *ristretto.Cache
}

var _ infra.Cache = (*RistrettoCache)(nil)

// NewRistretto builds a RistrettoCache sized for a few hundred thousand
// cached responses.
func NewRistretto() (*RistrettoCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 27, // 128 MiB
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("infra/cache: constructing ristretto cache: %w", err)
	}
	return &RistrettoCache{cache: c}, nil
}

// Get returns the cached value for key, if present and not yet expired.
func (c *RistrettoCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return b, true
}

// Set stores value under key with the given TTL. The cost charged to
// ristretto's admission policy is the length of value.
func (c *RistrettoCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.cache.SetWithTTL(key, value, int64(len(value)), ttl)
}

// Close releases ristretto's background goroutines.
func (c *RistrettoCache) Close() {
	c.cache.Close()
}
