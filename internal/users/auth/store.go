// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// IdentityRepository stores the credentials of marketplace accounts. Lookups
// by email are case-insensitive. Missing rows are apperr.NotFound.
type IdentityRepository interface {
	FindByID(context context.Context, id string) (*Identity, error)
	FindByEmail(context context.Context, email string) (*Identity, error)

	// Create inserts the identity. The database trigger creates the matching
	// profile (role "user") in the same transaction. A taken email is
	// apperr.Conflict.
	Create(context context.Context, identity *Identity) error

	UpdatePassword(context context.Context, identityID, newHash string) error
}

// SessionRepository stores refresh-token sessions by token hash.
type SessionRepository interface {
	Create(context context.Context, session *Session) error

	// FindByTokenHash only returns sessions that are neither revoked nor expired.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	Revoke(context context.Context, sessionID string) error
	RevokeAll(context context.Context, identityID string) error

	// RevokeOthers signs the identity out everywhere except currentSessionID.
	RevokeOthers(context context.Context, identityID, currentSessionID string) error

	// DeleteExpired purges expired rows and reports how many went.
	DeleteExpired(context context.Context) (int64, error)
}

// ResetTokenRepository holds single-use password reset tokens until ttl.
type ResetTokenRepository interface {
	Set(context context.Context, token, identityID string, ttl time.Duration) error

	// Get is apperr.NotFound for unknown or expired tokens.
	Get(context context.Context, token string) (string, error)

	Delete(context context.Context, token string) error
}
