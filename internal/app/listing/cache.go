// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache keeps fetched values per key until they are invalidated.
//
// Concurrent misses on the same key share one fetch. Failed fetches are never
// stored, and neither is a fetch that was overtaken by an [Cache.Invalidate].
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	// generation of each key, bumped on every invalidation.
	generations map[string]uint64
	group       singleflight.Group
}

// NewCache constructs an empty [Cache].
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V), generations: make(map[string]uint64)}
}

// Get returns the cached value for key, calling fetch on a miss.
func (cache *Cache[V]) Get(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	cache.mu.RLock()
	value, ok := cache.entries[key]
	cache.mu.RUnlock()
	if ok {
		return value, nil
	}

	result, err, _ := cache.group.Do(key, func() (any, error) {
		cache.mu.RLock()
		generation := cache.generations[key]
		cache.mu.RUnlock()

		fetched, err := fetch(ctx)
		if err != nil {
			return fetched, err
		}
		cache.mu.Lock()
		if cache.generations[key] == generation {
			cache.entries[key] = fetched
		}
		cache.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Invalidate drops key so the next Get fetches again.
func (cache *Cache[V]) Invalidate(key string) {
	cache.mu.Lock()
	delete(cache.entries, key)
	cache.generations[key]++
	cache.mu.Unlock()
	cache.group.Forget(key)
}

// Len returns the number of cached keys.
func (cache *Cache[V]) Len() int {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return len(cache.entries)
}
