// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/sec"
)

type roleTable map[string]sec.Role

func (table roleTable) RoleOf(_ context.Context, userID string) (sec.Role, error) {
	if role, ok := table[userID]; ok {
		return role, nil
	}
	return "", apperr.NotFound("Profile")
}

var roles = roleTable{adminID: sec.RoleAdmin, partnerID: sec.RolePartner, otherID: sec.RolePartner, userID: sec.RoleUser}

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			if id := request.Header.Get("X-Test-User"); id != "" {
				ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: id})
			}
			if lang, ok := i18n.Parse(request.Header.Get("Accept-Language")); ok {
				ctx = ctxutil.WithLanguage(ctx, lang)
			}
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	})
	router.Mount("/places", catalog.NewHandler(f.service, roles, newVenue).Routes())
	return router
}

func send(router http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	request := httptest.NewRequest(method, path, &payload)
	if user != "" {
		request.Header.Set("X-Test-User", user)
	}
	request.Header.Set("Accept-Language", "ru")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

type venueEnvelope struct {
	Data *catalog.Venue `json:"data"`
}

type venuesEnvelope struct {
	Data []*catalog.Venue `json:"data"`
}

/*
TestHandler_Lifecycle walks a listing through create, patch, list and delete.
*/
func TestHandler_Lifecycle(t *testing.T) {
	f := newFixture()
	router := newRouter(f)

	body := map[string]any{"name": "Ала-Тоо", "description": "Чоң зал", "price": "15000", "capacity": 250}

	assert.Equal(t, http.StatusUnauthorized, send(router, http.MethodPost, "/places", "", body).Code)
	assert.Equal(t, http.StatusForbidden, send(router, http.MethodPost, "/places", userID, body).Code)

	recorder := send(router, http.MethodPost, "/places", partnerID, body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created venueEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, partnerID, created.Data.OwnerID)

	recorder = send(router, http.MethodPatch, "/places/"+created.Data.ID, partnerID, map[string]any{"name_ru": "Ала-Тоо зал"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var patched venueEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &patched))
	assert.Equal(t, "Чоң зал", patched.Data.Description)
	assert.Equal(t, 250, patched.Data.Capacity)
	require.NotNil(t, patched.Data.NameRU)

	recorder = send(router, http.MethodPatch, "/places/"+created.Data.ID, otherID, map[string]any{"name": "x"})
	require.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Вы не владелец этой услуги")

	recorder = send(router, http.MethodGet, "/places?q="+url.QueryEscape("чоң")+"&sort=price_desc", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var listed venuesEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)

	recorder = send(router, http.MethodGet, "/places/mine", otherID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[]}`, recorder.Body.String())

	assert.Equal(t, http.StatusNoContent, send(router, http.MethodDelete, "/places/"+created.Data.ID, partnerID, nil).Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodGet, "/places/"+created.Data.ID, "", nil).Code)
}

/*
TestHandler_EmptyAndInvalid covers empty collections and malformed requests.
*/
func TestHandler_EmptyAndInvalid(t *testing.T) {
	router := newRouter(newFixture())

	recorder := send(router, http.MethodGet, "/places?q=xyz", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[]}`, recorder.Body.String())

	assert.Equal(t, http.StatusNotFound, send(router, http.MethodGet, "/places/not-a-uuid", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, send(router, http.MethodPost, "/places", partnerID, map[string]any{"capacity": 5}).Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodDelete, "/places/0198f0a2-0000-7000-8000-0000000000ff", adminID, nil).Code)
}
