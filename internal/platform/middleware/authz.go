// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/respond"
	"github.com/toikana/marketplace/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RoleLookup resolves the current role of an identity from its profile.
//
// Roles are never read from the access token: a role change made by an
// administrator takes effect on the very next request.
type RoleLookup interface {
	RoleOf(context context.Context, userID string) (sec.Role, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format").WithKey(i18n.KeyErrUnauthorized))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token").WithKey(i18n.KeyErrUnauthorized))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required").WithKey(i18n.KeyErrUnauthorized))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRoles blocks requests whose profile role is not in the required set.
//
// An empty set admits any authenticated identity. The resolved
// [*sec.Principal] is stored in the context for ownership checks downstream.
//
// # Flow
//  1. Require authentication (401 otherwise).
//  2. Resolve the role through [RoleLookup].
//  3. Evaluate [sec.CanAccess]; abort with 403 when it denies.
func RequireRoles(lookup RoleLookup, roles ...sec.Role) func(http.Handler) http.Handler {
	required := sec.Roles(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			context := request.Context()

			// ── 1. Authentication Check ───────────────────────────────────────
			claims := ctxutil.GetAuthUser(context)
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required").WithKey(i18n.KeyErrUnauthorized))
				return
			}

			// ── 2. Profile Role ───────────────────────────────────────────────
			role, err := lookup.RoleOf(context, claims.UserID)
			if err != nil {
				if apperr.IsNotFound(err) {
					respond.Error(writer, request, apperr.Forbidden("Profile not found").WithKey(i18n.KeyErrForbidden))
					return
				}
				respond.Error(writer, request, err)
				return
			}

			principal := &sec.Principal{ID: claims.UserID, Role: role}

			// ── 3. Authorization Check ────────────────────────────────────────
			if !sec.CanAccess(claims.Identity(), principal, required) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions").WithKey(i18n.KeyErrForbidden))
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithPrincipal(context, principal)))
		})
	}
}
