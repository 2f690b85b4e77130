// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/apperr"
)

/*
TestAppError_Chain verifies that wrapped AppErrors are still detected.
*/
func TestAppError_Chain(t *testing.T) {
	base := apperr.NotFound("Venue")
	wrapped := fmt.Errorf("catalog_service_get_failed: %w", base)

	assert.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeConflict))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	assert.Equal(t, "Venue not found", ae.Error())

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.False(t, apperr.IsNotFound(nil))
}

/*
TestAppError_WithKey leaves the original error untouched.
*/
func TestAppError_WithKey(t *testing.T) {
	original := apperr.Forbidden("Not the owner")
	localized := original.WithKey("error.not_owner")

	assert.Empty(t, original.Key)
	assert.Equal(t, "error.not_owner", localized.Key)
	assert.Equal(t, original.Code, localized.Code)

	cause := errors.New("boom")
	withCause := apperr.Internal(nil).WithCause(cause)
	assert.ErrorIs(t, withCause, cause)
}

/*
TestNew derives the HTTP status from the code.
*/
func TestNew(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{apperr.CodeValidation, http.StatusBadRequest},
		{apperr.CodeRateLimited, http.StatusTooManyRequests},
		{apperr.CodeServiceUnavailable, http.StatusServiceUnavailable},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := apperr.New(tt.code, "message")
			assert.Equal(t, tt.status, err.HTTPStatus)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}
