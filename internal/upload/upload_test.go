// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/objstore"
	"github.com/toikana/marketplace/internal/platform/respond"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/upload"
	"github.com/toikana/marketplace/pkg/media"
)

const (
	partnerID = "0198f0a2-0000-7000-8000-00000000000b"
	userID    = "0198f0a2-0000-7000-8000-00000000000d"
	bucket    = "listing-images"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

type roleTable map[string]sec.Role

func (table roleTable) RoleOf(_ context.Context, id string) (sec.Role, error) {
	if role, ok := table[id]; ok {
		return role, nil
	}
	return "", apperr.NotFound("Profile")
}

func newService() (*upload.Service, *objstore.Memory) {
	store := objstore.NewMemory("https://cdn.toikana.kg")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return upload.NewService(store, bucket, logger), store
}

func newRouter(service *upload.Service) http.Handler {
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
	roles := roleTable{partnerID: sec.RolePartner, userID: sec.RoleUser}
	router.Mount("/uploads", upload.NewHandler(service, roles).Routes())
	return router
}

func multipartBody(t *testing.T, kind, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if kind != "" {
		require.NoError(t, writer.WriteField(upload.FieldKind, kind))
	}
	if filename != "" {
		part, err := writer.CreateFormFile(upload.FieldFile, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

/*
TestService_Upload stores the object under a fresh kind/owner path.
*/
func TestService_Upload(t *testing.T) {
	service, store := newService()
	principal := &sec.Principal{ID: partnerID, Role: sec.RolePartner}

	result, err := service.Upload(context.Background(), principal, catalog.KindPlaces, upload.Image{
		Filename:    "Hall Photo.PNG",
		ContentType: "image/png",
		Size:        int64(len(pngHeader)),
		Body:        bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Path, "places/"+partnerID+"/"))
	assert.True(t, strings.HasSuffix(result.Path, "-hall-photo.png"))
	assert.Equal(t, "https://cdn.toikana.kg/"+bucket+"/"+result.Path, result.URL)

	data, contentType, ok := store.Object(bucket, result.Path)
	require.True(t, ok)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", contentType)

	again, err := service.Upload(context.Background(), principal, catalog.KindPlaces, upload.Image{
		Filename: "Hall Photo.PNG", ContentType: "image/png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.NotEqual(t, result.Path, again.Path)
	assert.Equal(t, 2, store.Len())
}

/*
TestService_UploadRejects refuses oversized and non-image files.
*/
func TestService_UploadRejects(t *testing.T) {
	tests := []struct {
		name        string
		size        int64
		contentType string
		want        error
	}{
		{"too_large", media.MaxImageSize + 1, "image/jpeg", media.ErrTooLarge},
		{"not_image", 100, "application/pdf", media.ErrNotImage},
		{"empty", 0, "image/png", media.ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService()
			_, err := service.Upload(context.Background(), &sec.Principal{ID: partnerID, Role: sec.RolePartner}, catalog.KindRentals, upload.Image{
				Filename: "file", ContentType: tt.contentType, Size: tt.size, Body: strings.NewReader("x"),
			})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, store.Len())
		})
	}
}

/*
TestCheckError localizes the size limit and empty file messages.
*/
func TestCheckError(t *testing.T) {
	err := upload.CheckError(i18n.Russian, media.ErrTooLarge)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "5")

	empty := apperr.As(upload.CheckError(i18n.Russian, media.ErrEmpty))
	require.NotNil(t, empty)
	assert.Equal(t, "Файл пустой", empty.Message)
}

/*
TestHandler_Upload covers the multipart endpoint.
*/
func TestHandler_Upload(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		kind     string
		filename string
		content  []byte
		status   int
	}{
		{"partner_png", partnerID, "places", "stage.png", pngHeader, http.StatusCreated},
		{"singular_kind", partnerID, "artist", "band.png", pngHeader, http.StatusCreated},
		{"anonymous", "", "places", "stage.png", pngHeader, http.StatusUnauthorized},
		{"regular_user", userID, "places", "stage.png", pngHeader, http.StatusForbidden},
		{"missing_file", partnerID, "places", "", nil, http.StatusBadRequest},
		{"unknown_kind", partnerID, "boats", "stage.png", pngHeader, http.StatusBadRequest},
		{"text_file", partnerID, "rentals", "notes.txt", []byte("plain text notes"), http.StatusBadRequest},
		{"too_large", partnerID, "rentals", "big.png", append(append([]byte{}, pngHeader...), make([]byte, media.MaxImageSize)...), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService()
			router := newRouter(service)

			body, contentType := multipartBody(t, tt.kind, tt.filename, tt.content)
			request := httptest.NewRequest(http.MethodPost, "/uploads/", body)
			request.Header.Set("Content-Type", contentType)
			if tt.user != "" {
				request.Header.Set("X-Test-User", tt.user)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			require.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			if tt.status != http.StatusCreated {
				assert.Equal(t, 0, store.Len())
				return
			}

			var envelope struct {
				Data upload.Result `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, "image/png", envelope.Data.ContentType)
			_, _, ok := store.Object(bucket, envelope.Data.Path)
			assert.True(t, ok)
		})
	}
}

/*
TestHandler_UploadLocalized renders the size limit in the request language.
*/
func TestHandler_UploadLocalized(t *testing.T) {
	service, _ := newService()
	router := newRouter(service)

	body, contentType := multipartBody(t, "places", "notes.txt", []byte("plain text notes"))
	request := httptest.NewRequest(http.MethodPost, "/uploads/", body)
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("X-Test-User", partnerID)
	request.Header.Set("Accept-Language", "ru")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, i18n.DefaultBundle().T(i18n.Russian, i18n.KeyImageNotImage), envelope.Error)
}
