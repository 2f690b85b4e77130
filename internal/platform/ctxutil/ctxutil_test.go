// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/sec"
)

/*
TestContext_Defaults checks what a bare context yields.
*/
func TestContext_Defaults(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Nil(t, ctxutil.GetPrincipal(ctx))
	assert.Equal(t, i18n.Kyrgyz, ctxutil.GetLanguage(ctx))
}

/*
TestContext_Values stores each request value and reads it back.
*/
func TestContext_Values(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	claims := &sec.AuthClaims{UserID: "user-123", Email: "partner@toikana.kg"}
	principal := &sec.Principal{ID: "user-123", Role: sec.RolePartner}

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithLogger(ctx, logger)
	ctx = ctxutil.WithAuthUser(ctx, claims)
	ctx = ctxutil.WithPrincipal(ctx, principal)
	ctx = ctxutil.WithLanguage(ctx, i18n.Russian)

	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
	assert.Same(t, claims, ctxutil.GetAuthUser(ctx))
	assert.Same(t, principal, ctxutil.GetPrincipal(ctx))
	assert.Equal(t, i18n.Russian, ctxutil.GetLanguage(ctx))
}

/*
TestContext_EmptyLanguage treats an empty language as unset.
*/
func TestContext_EmptyLanguage(t *testing.T) {
	ctx := ctxutil.WithLanguage(context.Background(), "")
	assert.Equal(t, i18n.Default, ctxutil.GetLanguage(ctx))
}
