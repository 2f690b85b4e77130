// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries per-request values through [context.Context]: the
// correlation id, the request logger, the verified identity, the resolved
// principal and the negotiated UI language.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/sec"
)

// key is private to this package so no other package can read or shadow
// these values.
type key[T any] struct{ name string }

var (
	requestIDKey = key[string]{"request_id"}
	loggerKey    = key[*slog.Logger]{"logger"}
	claimsKey    = key[*sec.AuthClaims]{"claims"}
	principalKey = key[*sec.Principal]{"principal"}
	languageKey  = key[i18n.Language]{"language"}
)

func with[T any](ctx context.Context, k key[T], value T) context.Context {
	return context.WithValue(ctx, k, value)
}

func get[T any](ctx context.Context, k key[T]) (T, bool) {
	value, ok := ctx.Value(k).(T)
	return value, ok
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, requestIDKey, id)
}

// GetRequestID returns "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := get(ctx, requestIDKey)
	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return with(ctx, loggerKey, logger)
}

// GetLogger returns the request logger, or [slog.Default] when none is set.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := get(ctx, loggerKey); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithAuthUser stores the verified access-token claims.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return with(ctx, claimsKey, claims)
}

// GetAuthUser returns the claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := get(ctx, claimsKey)
	return claims
}

// WithPrincipal stores the identity together with its profile role.
func WithPrincipal(ctx context.Context, principal *sec.Principal) context.Context {
	return with(ctx, principalKey, principal)
}

// GetPrincipal returns nil unless a role guard ran.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, _ := get(ctx, principalKey)
	return principal
}

func WithLanguage(ctx context.Context, lang i18n.Language) context.Context {
	return with(ctx, languageKey, lang)
}

// GetLanguage returns the negotiated language, or [i18n.Default].
func GetLanguage(ctx context.Context) i18n.Language {
	if lang, ok := get(ctx, languageKey); ok && lang != "" {
		return lang
	}
	return i18n.Default
}
