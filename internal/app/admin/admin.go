// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package admin backs the admin screen: the user table with role changes and
// the cross-owner catalog table with bulk delete.
package admin

import (
	"context"
	"log/slog"

	"github.com/toikana/marketplace/internal/app/notify"
	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/users/profile"
)

// Accounts is the privileged user procedure pair.
type Accounts interface {
	ListUsers(ctx context.Context) ([]*profile.UserSummary, error)
	ChangeRole(ctx context.Context, id string, role sec.Role) (*profile.Profile, error)
}

// Deleter removes catalog rows of one kind.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Invalidator drops cached collections after a delete.
type Invalidator interface {
	Invalidate(kind catalog.Kind)
}

// Console is the admin screen model.
type Console struct {
	accounts    Accounts
	collections map[catalog.Kind]Deleter
	invalidator Invalidator
	notifier    *notify.Notifier
	logger      *slog.Logger
}

// NewConsole constructs a [Console].
func NewConsole(accounts Accounts, collections map[catalog.Kind]Deleter, invalidator Invalidator, notifier *notify.Notifier, logger *slog.Logger) *Console {
	return &Console{
		accounts:    accounts,
		collections: collections,
		invalidator: invalidator,
		notifier:    notifier,
		logger:      logger,
	}
}

// Users returns every user. A failure notifies and yields an empty table.
func (console *Console) Users(ctx context.Context) []*profile.UserSummary {
	users, err := console.accounts.ListUsers(ctx)
	if err != nil {
		console.logger.WarnContext(ctx, "admin_users_failed", slog.Any("error", err))
		console.notifier.Error(i18n.KeyAdminUsersFailed)
		return []*profile.UserSummary{}
	}
	return users
}

// ChangeRole sets the role of user id and reports the outcome.
func (console *Console) ChangeRole(ctx context.Context, id string, role sec.Role) error {
	if _, err := console.accounts.ChangeRole(ctx, id, role); err != nil {
		console.logger.WarnContext(ctx, "admin_role_failed",
			slog.String("user_id", id),
			slog.String("role", string(role)),
			slog.Any("error", err),
		)
		console.notifier.Error(i18n.KeyAdminRoleFailed)
		return err
	}

	console.notifier.Success(i18n.KeyAdminRoleChanged)
	return nil
}

/*
DeleteItems removes ids of kind one by one.

Every failed row is notified separately and does not stop the rest. The
returned slice lists the ids that were removed. The kind's cached collection
is dropped whenever at least one row went away.
*/
func (console *Console) DeleteItems(ctx context.Context, kind catalog.Kind, ids ...string) []string {
	collection, ok := console.collections[kind]
	if !ok {
		console.notifier.Error(i18n.KeyCatalogDeleteFailed)
		return nil
	}

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := collection.Delete(ctx, id); err != nil {
			console.logger.WarnContext(ctx, "admin_delete_failed",
				slog.String("kind", string(kind)),
				slog.String("id", id),
				slog.Any("error", err),
			)
			console.notifier.Error(i18n.KeyCatalogDeleteFailed)
			continue
		}
		deleted = append(deleted, id)
	}

	if len(deleted) > 0 {
		if console.invalidator != nil {
			console.invalidator.Invalidate(kind)
		}
		console.notifier.Success(i18n.KeyCatalogDeleted)
	}
	return deleted
}
