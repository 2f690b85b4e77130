// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	requestutil "github.com/toikana/marketplace/internal/platform/request"
	"github.com/toikana/marketplace/internal/platform/sec"
)

/*
TestDecodeJSON accepts a single JSON object and nothing else.
*/
func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"object", `{"name":"Ала-Тоо"}`, false},
		{"trailing_whitespace", "{\"name\":\"Ала-Тоо\"}\n", false},
		{"malformed", `{"name":`, true},
		{"two_values", `{"name":"a"}{"name":"b"}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target struct {
				Name string `json:"name"`
			}
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := requestutil.DecodeJSON(request, &target)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ала-Тоо", target.Name)
		})
	}
}

/*
TestRequiredUserID rejects anonymous requests with 401.
*/
func TestRequiredUserID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := requestutil.RequiredUserID(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u-1"}))
	id, err := requestutil.RequiredUserID(request)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)
}
