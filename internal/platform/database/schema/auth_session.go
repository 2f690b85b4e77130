// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AuthSessionTable represents the 'auth.session' table
type AuthSessionTable struct {
	Table      string
	ID         string
	IdentityID string
	TokenHash  string
	IPAddress  string
	UserAgent  string
	IsRevoked  string
	ExpiresAt  string
	RevokedAt  string
	CreatedAt  string
}

// AuthSession is the schema definition for auth.session
var AuthSession = AuthSessionTable{
	Table:      "auth.session",
	ID:         "id",
	IdentityID: "identity_id",
	TokenHash:  "token_hash",
	IPAddress:  "ip_address",
	UserAgent:  "user_agent",
	IsRevoked:  "is_revoked",
	ExpiresAt:  "expires_at",
	RevokedAt:  "revoked_at",
	CreatedAt:  "created_at",
}

// Columns returns all standard column names
func (t AuthSessionTable) Columns() []string {
	return []string{
		t.ID, t.IdentityID, t.TokenHash, t.IPAddress, t.UserAgent, t.IsRevoked, t.ExpiresAt, t.RevokedAt, t.CreatedAt,
	}
}
