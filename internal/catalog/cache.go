// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/metrics"
	redisutil "github.com/toikana/marketplace/internal/platform/redis"
)

// # List Cache

// ListCache holds full collections per kind between writes.
type ListCache interface {
	// Load decodes the cached collection of kind into target and reports a hit.
	Load(context context.Context, kind Kind, target any) (bool, error)

	// Store caches the collection of kind.
	Store(context context.Context, kind Kind, value any) error

	// Invalidate drops every cached entry of kind.
	Invalidate(context context.Context, kind Kind) error
}

// NoCache disables caching.
type NoCache struct{}

func (NoCache) Load(context.Context, Kind, any) (bool, error) { return false, nil }
func (NoCache) Store(context.Context, Kind, any) error        { return nil }
func (NoCache) Invalidate(context.Context, Kind) error        { return nil }

// RedisListCache implements [ListCache] with JSON values and a TTL.
type RedisListCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisListCache creates a Redis-backed [ListCache].
func NewRedisListCache(client redis.UniversalClient, ttl time.Duration) *RedisListCache {
	return &RedisListCache{client: client, ttl: ttl}
}

func cacheKey(kind Kind) string {
	return constants.RedisPrefixCatalogList + kind.String()
}

// Load reads and decodes the cached collection.
func (cache *RedisListCache) Load(context context.Context, kind Kind, target any) (bool, error) {
	payload, err := cache.client.Get(context, cacheKey(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CatalogCacheLookups.WithLabelValues(kind.String(), metrics.CacheMiss).Inc()
			return false, nil
		}
		return false, fmt.Errorf("catalog_cache_get_failed: %w", err)
	}

	if err := json.Unmarshal(payload, target); err != nil {
		// A payload from an older shape is treated as a miss.
		metrics.CatalogCacheLookups.WithLabelValues(kind.String(), metrics.CacheMiss).Inc()
		return false, nil
	}

	metrics.CatalogCacheLookups.WithLabelValues(kind.String(), metrics.CacheHit).Inc()
	return true, nil
}

// Store encodes and caches the collection.
func (cache *RedisListCache) Store(context context.Context, kind Kind, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("catalog_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(kind), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("catalog_cache_set_failed: %w", err)
	}
	return nil
}

// Invalidate removes the kind's entries.
func (cache *RedisListCache) Invalidate(context context.Context, kind Kind) error {
	if _, err := redisutil.DeleteByPrefix(context, cache.client, cacheKey(kind)); err != nil {
		return fmt.Errorf("catalog_cache_invalidate_failed: %w", err)
	}
	return nil
}
