// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"slices"
	"strings"
)

// # User Roles

// Role is the authorization capability stored on a profile.
//
// Roles are a flat set, not a hierarchy: an admin is only allowed where
// admin is listed, except for the ownership rule in [CanManageOwnedResource].
type Role string

const (
	// RoleUser is the default role of every new profile.
	RoleUser Role = "user"

	// RolePartner may publish and manage their own listings.
	RolePartner Role = "partner"

	// RoleAdmin manages roles and every listing.
	RoleAdmin Role = "admin"
)

// AllRoles lists every valid role.
func AllRoles() []Role {
	return []Role{RoleUser, RolePartner, RoleAdmin}
}

// ParseRole validates a role string.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if slices.Contains(AllRoles(), role) {
		return role, true
	}
	return "", false
}

// String implements [fmt.Stringer].
func (r Role) String() string {
	return string(r)
}

// # Role Sets

// RoleSet is the set of roles a route or operation requires.
//
// An empty set means "any authenticated identity".
type RoleSet []Role

// Roles builds a [RoleSet].
func Roles(roles ...Role) RoleSet {
	return RoleSet(roles)
}

// Contains reports whether role is a member of the set.
func (set RoleSet) Contains(role Role) bool {
	return slices.Contains(set, role)
}

// IsEmpty reports whether the set places no role restriction.
func (set RoleSet) IsEmpty() bool {
	return len(set) == 0
}

// Strings returns the roles as plain strings.
func (set RoleSet) Strings() []string {
	out := make([]string, len(set))
	for i, role := range set {
		out[i] = string(role)
	}
	return out
}

// Common role sets.
var (
	// Managers may reach the listing creation and editing tooling.
	Managers = Roles(RolePartner, RoleAdmin)

	// Admins may reach the admin dashboard.
	Admins = Roles(RoleAdmin)

	// Authenticated accepts any signed-in identity.
	Authenticated = Roles()
)
