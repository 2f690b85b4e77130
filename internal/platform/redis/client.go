// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package redis connects to the Redis instance holding password reset tokens
// and the cached catalog collections, and clears cache families by prefix.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// unlinkBatch is how many keys are unlinked per round trip.
const unlinkBatch = 100

// NewClient dials redisURL (redis://[:password@]host:port/db) and pings it.
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = 2 * time.Second
	options.WriteTimeout = 2 * time.Second

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// Ping is the readiness probe of the cache.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// DeleteByPrefix unlinks every key starting with prefix and returns how many
// were removed. Keys are walked with SCAN so the server is never blocked.
func DeleteByPrefix(ctx context.Context, client redis.UniversalClient, prefix string) (int, error) {
	removed := 0
	batch := make([]string, 0, unlinkBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		count, err := client.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis: unlink %q: %w", prefix, err)
		}
		removed += int(count)
		batch = batch[:0]
		return nil
	}

	iterator := client.Scan(ctx, 0, prefix+"*", unlinkBatch).Iterator()
	for iterator.Next(ctx) {
		batch = append(batch, iterator.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iterator.Err(); err != nil {
		return removed, fmt.Errorf("redis: scan %q: %w", prefix, err)
	}
	return removed, flush()
}
