// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/sec"
)

/*
TestCanAccess covers the route-level role check.
*/
func TestCanAccess(t *testing.T) {
	identity := &sec.Identity{ID: "u1", Email: "u1@toikana.kg"}
	user := &sec.Principal{ID: "u1", Role: sec.RoleUser}
	partner := &sec.Principal{ID: "u1", Role: sec.RolePartner}
	admin := &sec.Principal{ID: "u1", Role: sec.RoleAdmin}

	tests := []struct {
		name      string
		identity  *sec.Identity
		principal *sec.Principal
		required  sec.RoleSet
		want      bool
	}{
		{"anonymous_any_identity", nil, nil, sec.Authenticated, false},
		{"anonymous_with_roles", nil, admin, sec.Admins, false},
		{"signed_in_any_identity", identity, nil, sec.Authenticated, true},
		{"profile_missing_with_roles", identity, nil, sec.Managers, false},
		{"user_denied_managers", identity, user, sec.Managers, false},
		{"partner_allowed_managers", identity, partner, sec.Managers, true},
		{"partner_denied_admins", identity, partner, sec.Admins, false},
		{"admin_allowed_admins", identity, admin, sec.Admins, true},
		{"admin_has_no_bypass", identity, admin, sec.Roles(sec.RolePartner), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.CanAccess(tt.identity, tt.principal, tt.required))
		})
	}
}

/*
TestCanManageOwnedResource covers the record-level ownership rule.
*/
func TestCanManageOwnedResource(t *testing.T) {
	assert.True(t, sec.CanManageOwnedResource(&sec.Principal{ID: "a", Role: sec.RoleAdmin}, "someone-else"))
	assert.True(t, sec.CanManageOwnedResource(&sec.Principal{ID: "x", Role: sec.RoleUser}, "x"))
	assert.True(t, sec.CanManageOwnedResource(&sec.Principal{ID: "x", Role: sec.RolePartner}, "x"))
	assert.False(t, sec.CanManageOwnedResource(&sec.Principal{ID: "x", Role: sec.RoleUser}, "y"))
	assert.False(t, sec.CanManageOwnedResource(&sec.Principal{ID: "x", Role: sec.RolePartner}, "y"))
	assert.False(t, sec.CanManageOwnedResource(&sec.Principal{Role: sec.RolePartner}, ""))
	assert.False(t, sec.CanManageOwnedResource(nil, "x"))
}

/*
TestParseRole rejects unknown roles.
*/
func TestParseRole(t *testing.T) {
	role, ok := sec.ParseRole(" Partner ")
	assert.True(t, ok)
	assert.Equal(t, sec.RolePartner, role)

	_, ok = sec.ParseRole("moderator")
	assert.False(t, ok)
}

/*
TestTokenService_RoundTrip signs and verifies an access token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := sec.NewTokenServiceFromKey(key, &key.PublicKey, "toikana.test")
	token, err := service.GenerateAccessToken("u1", "u1@toikana.kg", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@toikana.kg", claims.Identity().Email)

	other := sec.NewTokenServiceFromKey(key, &key.PublicKey, "someone.else")
	_, err = other.VerifyToken(token)
	assert.Error(t, err)

	expired, err := service.GenerateAccessToken("u1", "u1@toikana.kg", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)
}

/*
TestSecureToken checks token randomness and hashing stability.
*/
func TestSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.Len(t, sec.HashToken(first), 64)

	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))

	_, err = sec.HashPassword(strings.Repeat("ж", 40))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)
}
