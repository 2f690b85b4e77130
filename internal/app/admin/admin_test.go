// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/app/admin"
	"github.com/toikana/marketplace/internal/app/notify"
	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/users/profile"
)

type fakeAccounts struct {
	users   []*profile.UserSummary
	listErr error
	roleErr error
	roles   map[string]sec.Role
}

func (f *fakeAccounts) ListUsers(context.Context) ([]*profile.UserSummary, error) {
	return f.users, f.listErr
}

func (f *fakeAccounts) ChangeRole(_ context.Context, id string, role sec.Role) (*profile.Profile, error) {
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	f.roles[id] = role
	return &profile.Profile{ID: id, Role: role}, nil
}

type fakeDeleter struct {
	rows   map[string]bool
	denied map[string]bool
}

func (f *fakeDeleter) Delete(_ context.Context, id string) error {
	if f.denied[id] {
		return errors.New("forbidden")
	}
	if !f.rows[id] {
		return errors.New("not found")
	}
	delete(f.rows, id)
	return nil
}

type invalidations []catalog.Kind

func (i *invalidations) Invalidate(kind catalog.Kind) { *i = append(*i, kind) }

func newConsole(accounts *fakeAccounts, places *fakeDeleter) (*admin.Console, *notify.Recorder, *invalidations) {
	recorder := &notify.Recorder{}
	invalid := &invalidations{}
	console := admin.NewConsole(
		accounts,
		map[catalog.Kind]admin.Deleter{catalog.KindPlaces: places},
		invalid,
		notify.New(recorder, nil),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return console, recorder, invalid
}

/*
TestUsers degrades to an empty table on failure.
*/
func TestUsers(t *testing.T) {
	accounts := &fakeAccounts{users: []*profile.UserSummary{{Profile: profile.Profile{ID: "u-1"}, Email: "a@toikana.kg"}}}
	console, recorder, _ := newConsole(accounts, &fakeDeleter{})

	assert.Len(t, console.Users(context.Background()), 1)

	accounts.listErr = errors.New("forbidden")
	users := console.Users(context.Background())
	require.NotNil(t, users)
	assert.Empty(t, users)
	assert.Equal(t, []string{i18n.KeyAdminUsersFailed}, recorder.Keys())
}

/*
TestChangeRole notifies both outcomes.
*/
func TestChangeRole(t *testing.T) {
	accounts := &fakeAccounts{roles: map[string]sec.Role{}}
	console, recorder, _ := newConsole(accounts, &fakeDeleter{})
	ctx := context.Background()

	require.NoError(t, console.ChangeRole(ctx, "u-2", sec.RolePartner))
	assert.Equal(t, sec.RolePartner, accounts.roles["u-2"])

	accounts.roleErr = errors.New("cannot change own role")
	assert.Error(t, console.ChangeRole(ctx, "u-1", sec.RoleUser))
	assert.Equal(t, []string{i18n.KeyAdminRoleChanged, i18n.KeyAdminRoleFailed}, recorder.Keys())
}

/*
TestDeleteItems reports each failed row and keeps going.
*/
func TestDeleteItems(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		kind        catalog.Kind
		deleted     []string
		keys        []string
		invalidated int
	}{
		{
			name:        "all_rows",
			ids:         []string{"v-1", "v-2"},
			kind:        catalog.KindPlaces,
			deleted:     []string{"v-1", "v-2"},
			keys:        []string{i18n.KeyCatalogDeleted},
			invalidated: 1,
		},
		{
			name:        "partial_failure",
			ids:         []string{"v-1", "v-locked", "v-gone", "v-2"},
			kind:        catalog.KindPlaces,
			deleted:     []string{"v-1", "v-2"},
			keys:        []string{i18n.KeyCatalogDeleteFailed, i18n.KeyCatalogDeleteFailed, i18n.KeyCatalogDeleted},
			invalidated: 1,
		},
		{
			name:    "all_failed",
			ids:     []string{"v-locked"},
			kind:    catalog.KindPlaces,
			deleted: []string{},
			keys:    []string{i18n.KeyCatalogDeleteFailed},
		},
		{
			name: "unknown_kind",
			ids:  []string{"a-1"},
			kind: catalog.KindArtists,
			keys: []string{i18n.KeyCatalogDeleteFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places := &fakeDeleter{
				rows:   map[string]bool{"v-1": true, "v-2": true, "v-locked": true},
				denied: map[string]bool{"v-locked": true},
			}
			console, recorder, invalid := newConsole(&fakeAccounts{}, places)

			deleted := console.DeleteItems(context.Background(), tt.kind, tt.ids...)
			if tt.deleted == nil {
				assert.Nil(t, deleted)
			} else {
				assert.Equal(t, tt.deleted, deleted)
			}
			assert.Equal(t, tt.keys, recorder.Keys())
			assert.Len(t, *invalid, tt.invalidated)
		})
	}
}
