// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/events"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/platform/validate"
	"github.com/toikana/marketplace/pkg/pagination"
)

// Service implements profile self-service and the admin procedures.
type Service struct {
	repository Repository
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewService constructs a new profile [Service].
func NewService(repository Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{repository: repository, publisher: publisher, logger: logger}
}

// # Authorization

// RoleOf returns the stored role of an identity. It satisfies the server role gate.
func (service *Service) RoleOf(context context.Context, userID string) (sec.Role, error) {
	profile, err := service.repository.FindByID(context, userID)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

// # Self Service

// GetMe returns the profile of the signed-in identity.
func (service *Service) GetMe(context context.Context, userID string) (*Profile, error) {
	profile, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("profile_service_get_failed: %w", err)
	}
	return profile, nil
}

/*
UpdateMe applies a self-service patch to the caller's own profile.

Description: Values are trimmed. The role is never part of the patch; it is
only changed through [Service.ChangeRole].

Parameters:
  - context: context.Context
  - userID: string
  - patch: Patch

Returns:
  - *Profile: The stored profile after the update
  - error: Validation or storage failures
*/
func (service *Service) UpdateMe(context context.Context, userID string, patch Patch) (*Profile, error) {
	patch = normalizePatch(patch)

	if err := validatePatch(ctxutil.GetLanguage(context), patch); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return service.GetMe(context, userID)
	}

	profile, err := service.repository.Update(context, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("profile_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "profile_updated", slog.String("profile_id", userID))
	return profile, nil
}

func normalizePatch(patch Patch) Patch {
	trim := func(value *string) *string {
		if value == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*value)
		return &trimmed
	}
	return Patch{FullName: trim(patch.FullName), Phone: trim(patch.Phone), AvatarURL: trim(patch.AvatarURL)}
}

func validatePatch(lang i18n.Language, patch Patch) error {
	validator := validate.In(lang)

	if patch.FullName != nil {
		validator.MaxLen(FieldFullName, *patch.FullName, FullNameMaxLength)
	}
	if patch.Phone != nil && *patch.Phone != "" {
		validator.Phone(FieldPhone, *patch.Phone)
	}
	if patch.AvatarURL != nil && *patch.AvatarURL != "" {
		validator.URL(FieldAvatarURL, *patch.AvatarURL)
	}

	return validator.Err()
}

// # Admin Procedures

// ListUsers returns one page of every user with email and profile.
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*UserSummary, int, error) {
	users, total, err := service.repository.List(context, params)
	if err != nil {
		return nil, 0, fmt.Errorf("profile_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
ChangeRole sets the role of another user's profile.

Description: Only admins may call it. An admin cannot change their own role, so
the last admin cannot lock everyone out. The change is effective on the target's
next request because the role gate always reads the stored profile.

Parameters:
  - context: context.Context
  - actor: *sec.Principal (the caller, resolved by the role gate)
  - targetID: string
  - role: sec.Role

Returns:
  - *Profile: The updated profile
  - error: Forbidden, NotFound or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actor *sec.Principal, targetID string, role sec.Role) (*Profile, error) {
	if actor == nil || actor.Role != sec.RoleAdmin {
		return nil, apperr.Forbidden("Only admins can change roles").WithKey(i18n.KeyErrForbidden)
	}

	if actor.ID == targetID {
		return nil, apperr.Forbidden("Admins cannot change their own role").WithKey(i18n.KeyErrForbidden)
	}

	current, err := service.repository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if current.Role == role {
		return current, nil
	}

	updated, err := service.repository.SetRole(context, targetID, role)
	if err != nil {
		return nil, fmt.Errorf("profile_service_change_role_failed: %w", err)
	}

	events.PublishQuietly(context, service.publisher, service.logger, events.New(
		events.TypeProfileRoleChanged,
		actor.ID,
		RoleChanged{ProfileID: targetID, From: current.Role, To: role},
	))

	service.logger.InfoContext(context, "profile_role_changed",
		slog.String("profile_id", targetID),
		slog.String("from", current.Role.String()),
		slog.String("to", role.String()),
		slog.String("actor_id", actor.ID),
	)

	return updated, nil
}
