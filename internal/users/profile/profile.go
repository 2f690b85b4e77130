// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile manages the application-level record attached to every identity.

A profile carries the role (the sole authorization signal) and the self-service
personal fields. Profiles are created by a database trigger when an identity is
inserted and are never deleted by the application.

# Architecture

  - Entities: Profile, UserSummary (admin listing view), Patch.
  - Authorization: [Service.RoleOf] backs the server role gate.
  - Admin: listing every user and changing roles are admin-only procedures.
*/
package profile

import (
	"context"
	"time"

	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/pkg/pagination"
)

// # Domain Entities

// Profile extends an identity with its role and personal fields.
type Profile struct {
	ID        string    `json:"id"`
	Role      sec.Role  `json:"role"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `json:"phone"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal returns the authorization view of the profile.
func (p *Profile) Principal() *sec.Principal {
	return &sec.Principal{ID: p.ID, Role: p.Role}
}

// UserSummary is one row of the admin user list.
type UserSummary struct {
	Profile
	Email string `json:"email"`
}

// Patch lists the self-service fields a user may change.
//
// A nil field is left untouched; an empty string clears the value.
type Patch struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Phone == nil && p.AvatarURL == nil
}

// RoleChanged is the payload of the role change event.
type RoleChanged struct {
	ProfileID string   `json:"profile_id"`
	From      sec.Role `json:"from"`
	To        sec.Role `json:"to"`
}

// Field names used in validation errors.
const (
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldAvatarURL = "avatar_url"
	FieldRole      = "role"
	FieldID        = "id"
)

// FullNameMaxLength bounds the display name stored on a profile.
const FullNameMaxLength = 120

// # Repository Contract

// Repository defines the persistence contract for profiles.
type Repository interface {
	/*
		FindByID retrieves the profile of an identity.

		Parameters:
		  - context: context.Context
		  - id: string (identity UUID)

		Returns:
		  - *Profile: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Profile, error)

	/*
		Update applies the non-nil fields of patch and returns the stored row.

		Parameters:
		  - context: context.Context
		  - id: string
		  - patch: Patch

		Returns:
		  - *Profile: Updated entity
		  - error: apperr.NotFound or storage failures
	*/
	Update(context context.Context, id string, patch Patch) (*Profile, error)

	// List returns one page of users joined with their email, newest first.
	List(context context.Context, params pagination.Params) ([]*UserSummary, int, error)

	// SetRole replaces the role of a profile and returns the stored row.
	SetRole(context context.Context, id string, role sec.Role) (*Profile, error)
}
