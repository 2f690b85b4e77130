// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Access Rules

// Identity is the authenticated-user handle issued by the auth component.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Principal is the authorization view of a profile.
type Principal struct {
	ID   string
	Role Role
}

/*
CanAccess decides whether a screen or route may be used.

Parameters:
  - identity: *Identity (nil when signed out)
  - principal: *Principal (nil while the profile is unknown)
  - required: RoleSet (empty means any signed-in identity)

Returns:
  - bool: true when the identity is present and, for a non-empty set,
    the principal's role is a member of it
*/
func CanAccess(identity *Identity, principal *Principal, required RoleSet) bool {
	if identity == nil {
		return false
	}

	if required.IsEmpty() {
		return true
	}

	return principal != nil && required.Contains(principal.Role)
}

/*
CanManageOwnedResource decides whether a specific listing may be edited or deleted.

Admins may manage every record. Everyone else only manages records whose owner
is their own identity.
*/
func CanManageOwnedResource(principal *Principal, ownerID string) bool {
	if principal == nil {
		return false
	}
	return principal.Role == RoleAdmin || (principal.ID != "" && principal.ID == ownerID)
}
