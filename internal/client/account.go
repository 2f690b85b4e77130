// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/users/profile"
	"github.com/toikana/marketplace/pkg/pagination"
)

// # Profile

// GetProfile fetches the signed-in identity's profile.
func (c *Client) GetProfile(ctx context.Context) (*profile.Profile, error) {
	var out profile.Profile
	if err := c.do(ctx, call{method: http.MethodGet, path: "/me", out: &out, auth: true}); err != nil {
		return nil, &PersistenceError{Op: "get_profile", Cause: err}
	}
	return &out, nil
}

// UpdateProfile persists the non-nil fields of patch on the own profile.
func (c *Client) UpdateProfile(ctx context.Context, patch profile.Patch) (*profile.Profile, error) {
	var out profile.Profile
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/me", body: patch, out: &out, auth: true}); err != nil {
		return nil, &PersistenceError{Op: "update_profile", Cause: err}
	}
	return &out, nil
}

// # Admin Procedures

// ListUsers returns every user with email and profile (admin only).
// Pages are fetched until the server reports the last one.
func (c *Client) ListUsers(ctx context.Context) ([]*profile.UserSummary, error) {
	users := make([]*profile.UserSummary, 0)

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(pagination.MaxLimit))

		var batch []*profile.UserSummary
		err := c.do(ctx, call{method: http.MethodGet, path: "/admin/users?" + query.Encode(), out: &batch, auth: true})
		if err != nil {
			return nil, &PersistenceError{Op: "list_users", Cause: err}
		}
		users = append(users, batch...)

		if len(batch) < pagination.MaxLimit {
			return users, nil
		}
	}
}

// ChangeRole sets the role of the user id (admin only).
func (c *Client) ChangeRole(ctx context.Context, id string, role sec.Role) (*profile.Profile, error) {
	var out profile.Profile
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/admin/users/" + url.PathEscape(id) + "/role",
		body:   map[string]string{"role": string(role)},
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "change_role", Cause: err}
	}
	return &out, nil
}
