// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/sec"
)

// RedisResetTokenRepository keeps password reset tokens under
// "auth:reset_token:<sha256>" with the identity id as value. Redis expires
// them; the plain token is never stored.
type RedisResetTokenRepository struct {
	client redis.UniversalClient
}

func NewResetTokenRepository(client redis.UniversalClient) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func (repository *RedisResetTokenRepository) key(token string) string {
	return constants.RedisPrefixResetToken + sec.HashToken(token)
}

func (repository *RedisResetTokenRepository) Set(context context.Context, token, identityID string, ttl time.Duration) error {
	return wrapRedis("set", repository.client.Set(context, repository.key(token), identityID, ttl).Err())
}

// Get answers NotFound (localized as an invalid link) for unknown or expired
// tokens.
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {
	identityID, err := repository.client.Get(context, repository.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.NotFound("Reset token").WithKey(i18n.KeyErrResetTokenInvalid)
	}
	return identityID, wrapRedis("get", err)
}

func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	return wrapRedis("delete", repository.client.Del(context, repository.key(token)).Err())
}

func wrapRedis(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("auth_reset_token_%s_failed: %w", op, err)
}
