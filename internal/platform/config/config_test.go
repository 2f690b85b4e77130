// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/config"
)

/*
TestLoad_RequiredVariables fails fast when required settings are missing.
*/
func TestLoad_RequiredVariables(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_Defaults applies defaults on top of the required settings.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/toikana")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PRIVATE_KEY_PATH", "/keys/private.pem")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, "listing-images", cfg.S3Bucket)
	assert.Equal(t, "toikana.kg", cfg.OriginSuffix())
	assert.Empty(t, cfg.AMQPURL)
}

/*
TestLoadClient_Defaults resolves a state path and trims the API URL.
*/
func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("MARKET_API_URL", "http://api.test/api/v1/")
	t.Setenv("MARKET_STATE_PATH", "")

	cfg, err := config.LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://api.test/api/v1", cfg.APIURL)
	assert.NotEmpty(t, cfg.StatePath)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}
