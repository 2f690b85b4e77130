// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements identities, refresh-token sessions and password
recovery for the marketplace API.

An identity is only an email and a password hash. Everything the application
knows about the person (role, name, phone) lives on the profile, which the
database creates by trigger when the identity row is inserted.
*/
package auth

import (
	"time"

	"github.com/toikana/marketplace/internal/platform/sec"
)

// # Domain Entities

// Identity is a registered sign-in handle.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Handle returns the public (id, email) pair issued to clients.
func (identity *Identity) Handle() sec.Identity {
	return sec.Identity{ID: identity.ID, Email: identity.Email}
}

// Session represents an active refresh-token session.
type Session struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	TokenHash  string    `json:"-"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsRevoked  bool      `json:"is_revoked"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldDisplayName  = "display_name"
	FieldToken        = "token"
	FieldRedirectTo   = "redirect_to"
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldMessage      = "message"
)
