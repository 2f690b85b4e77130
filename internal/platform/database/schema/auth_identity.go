// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AuthIdentityTable represents the 'auth.identity' table
type AuthIdentityTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    string
	UpdatedAt    string
}

// AuthIdentity is the schema definition for auth.identity
var AuthIdentity = AuthIdentityTable{
	Table:        "auth.identity",
	ID:           "id",
	Email:        "email",
	PasswordHash: "password_hash",
	DisplayName:  "display_name",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

// Columns returns all standard column names
func (t AuthIdentityTable) Columns() []string {
	return []string{t.ID, t.Email, t.PasswordHash, t.DisplayName, t.CreatedAt, t.UpdatedAt}
}
