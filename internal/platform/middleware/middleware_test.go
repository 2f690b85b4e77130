// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/middleware"
	"github.com/toikana/marketplace/internal/platform/sec"
)

/*
TestLanguage checks the negotiation precedence: query, cookie, header, default.
*/
func TestLanguage(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		cookie     string
		header     string
		want       i18n.Language
		setsCookie bool
	}{
		{"default", "/", "", "", i18n.Kyrgyz, false},
		{"header", "/", "", "ru-RU,ru;q=0.9", i18n.Russian, false},
		{"cookie_beats_header", "/", "ky", "ru", i18n.Kyrgyz, false},
		{"query_beats_cookie", "/?lang=ru", "ky", "", i18n.Russian, true},
		{"query_alias", "/?lang=kg", "", "ru", i18n.Kyrgyz, true},
		{"bad_query_falls_through", "/?lang=de", "", "ru", i18n.Russian, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got i18n.Language
			handler := middleware.Language()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				got = ctxutil.GetLanguage(request.Context())
			}))

			request := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: i18n.CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				request.Header.Set("Accept-Language", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, string(tt.want), recorder.Header().Get("Content-Language"))
			assert.Equal(t, tt.setsCookie, len(recorder.Result().Cookies()) > 0)
		})
	}
}

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token == "valid" {
		return &sec.AuthClaims{UserID: "u-1", Email: "u@toikana.kg"}, nil
	}
	return nil, errors.New("bad token")
}

type stubRoles map[string]sec.Role

func (roles stubRoles) RoleOf(_ context.Context, id string) (sec.Role, error) {
	if role, ok := roles[id]; ok {
		return role, nil
	}
	return "", apperr.NotFound("Profile")
}

/*
TestRequireRoles resolves the role per request and stores the principal.
*/
func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		auth     string
		role     sec.Role
		required []sec.Role
		status   int
	}{
		{"anonymous", "", sec.RoleAdmin, []sec.Role{sec.RoleAdmin}, http.StatusUnauthorized},
		{"malformed_header", "Token valid", sec.RoleAdmin, nil, http.StatusUnauthorized},
		{"invalid_token", "Bearer nope", sec.RoleAdmin, nil, http.StatusUnauthorized},
		{"admin_allowed", "Bearer valid", sec.RoleAdmin, []sec.Role{sec.RoleAdmin}, http.StatusOK},
		{"user_denied", "Bearer valid", sec.RoleUser, []sec.Role{sec.RolePartner, sec.RoleAdmin}, http.StatusForbidden},
		{"partner_allowed", "Bearer valid", sec.RolePartner, []sec.Role{sec.RolePartner, sec.RoleAdmin}, http.StatusOK},
		{"empty_set_admits_any", "Bearer valid", sec.RoleUser, nil, http.StatusOK},
		{"missing_profile", "Bearer valid", "", []sec.Role{sec.RoleUser}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := stubRoles{}
			if tt.role != "" {
				roles["u-1"] = tt.role
			}

			var principal *sec.Principal
			final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				principal = ctxutil.GetPrincipal(request.Context())
				writer.WriteHeader(http.StatusOK)
			})
			handler := middleware.Authenticate(stubVerifier{})(middleware.RequireRoles(roles, tt.required...)(final))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				request.Header.Set("Authorization", tt.auth)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			require.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusOK {
				require.NotNil(t, principal)
				assert.Equal(t, "u-1", principal.ID)
				assert.Equal(t, tt.role, principal.Role)
			}
		})
	}
}

/*
TestRequireAuth rejects anonymous requests only.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.Authenticate(stubVerifier{})(middleware.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer valid")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestLimiter spends the burst, refuses the next call and forgets idle IPs.
*/
func TestLimiter(t *testing.T) {
	limiter := middleware.NewLimiter(1, 2, time.Minute)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, limiter.Allow("10.0.0.1", now))
	assert.True(t, limiter.Allow("10.0.0.1", now))
	assert.False(t, limiter.Allow("10.0.0.1", now))
	assert.True(t, limiter.Allow("10.0.0.2", now))

	assert.Equal(t, 2, limiter.Sweep(now.Add(30*time.Second)))
	assert.Equal(t, 0, limiter.Sweep(now.Add(2*time.Minute)))

	handler := middleware.NewLimiter(1, 1, time.Minute).Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))
	statuses := make([]int, 0, 2)
	for range 2 {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/places", nil))
		statuses = append(statuses, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, statuses)
}

/*
TestRecover answers 500 instead of dropping the connection.
*/
func TestRecover(t *testing.T) {
	handler := middleware.Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apperr.CodeInternal)
}

type originPolicy struct {
	dev    bool
	suffix string
}

func (policy originPolicy) IsDevelopment() bool  { return policy.dev }
func (policy originPolicy) OriginSuffix() string { return policy.suffix }

/*
TestCORS echoes allowed origins and ends preflight requests.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		policy  originPolicy
		origin  string
		method  string
		allowed bool
		status  int
	}{
		{"production_match", originPolicy{suffix: ".toikana.kg"}, "https://www.toikana.kg", http.MethodGet, true, http.StatusOK},
		{"production_foreign", originPolicy{suffix: ".toikana.kg"}, "https://evil.example", http.MethodGet, false, http.StatusOK},
		{"development_any", originPolicy{dev: true}, "http://localhost:5173", http.MethodGet, true, http.StatusOK},
		{"preflight", originPolicy{suffix: ".toikana.kg"}, "https://www.toikana.kg", http.MethodOptions, true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(tt.policy)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(tt.method, "/api/v1/places", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRequestID keeps a caller-provided id and issues one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "abc", seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
}
