// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed names and timings shared by the API
// server and the terminal client.
package constants

import "time"

// # Server

const (
	// Image uploads are the largest bodies the API reads.
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 20 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute
	DefaultReadHeaderTimeout = 2 * time.Second

	GlobalRequestTimeout = 30 * time.Second
	ShutdownTimeout      = 30 * time.Second

	// SessionPurgeInterval paces the sweep of expired refresh sessions.
	SessionPurgeInterval = time.Hour
)

// # Per-IP Request Budget

const (
	DefaultRateLimitRPS   = 50.0
	DefaultRateLimitBurst = 100

	// An IP idle for RateLimitClientTTL loses its bucket on the next sweep.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Sessions

const (
	AuthIssuer = "toikana.kg"

	RefreshTokenCookieName = "refresh_token"
	RefreshTokenCookiePath = "/api/v1/auth"

	// HeaderRefreshToken carries the refresh token for clients without cookies.
	HeaderRefreshToken = "X-Refresh-Token"
)

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAcceptLang    = "Accept-Language"
)

// Keys of the health probe body.
const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Keys

const (
	RedisPrefixResetToken  = "auth:reset_token:"
	RedisPrefixCatalogList = "catalog:list:"
)
