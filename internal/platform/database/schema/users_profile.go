// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UsersProfileTable represents the 'users.profile' table
type UsersProfileTable struct {
	Table     string
	ID        string
	Role      string
	FullName  string
	Phone     string
	AvatarURL string
	CreatedAt string
	UpdatedAt string
}

// UsersProfile is the schema definition for users.profile
var UsersProfile = UsersProfileTable{
	Table:     "users.profile",
	ID:        "id",
	Role:      "role",
	FullName:  "full_name",
	Phone:     "phone",
	AvatarURL: "avatar_url",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t UsersProfileTable) Columns() []string {
	return []string{t.ID, t.Role, t.FullName, t.Phone, t.AvatarURL, t.CreatedAt, t.UpdatedAt}
}
