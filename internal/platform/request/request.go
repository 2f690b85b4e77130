// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads the inputs of an API request: the JSON body,
// chi path parameters, the caller's identity and the negotiated language.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/validate"
)

// MaxJSONBody bounds every JSON request body. Long descriptions in two
// languages fit comfortably.
const MaxJSONBody = 1 << 20

// DecodeJSON decodes exactly one JSON value from the body into target.
// Malformed, oversized or trailing input yields [validate.ErrInvalidJSON].
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, MaxJSONBody))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID returns the chi path parameter name.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// RequiredUserID returns the authenticated identity, or 401 for anonymous
// requests.
func RequiredUserID(request *http.Request) (string, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return "", apperr.Unauthorized("Authentication required").WithKey(i18n.KeyErrUnauthorized)
	}
	return claims.UserID, nil
}

// Language is the UI language chosen by the language middleware.
func Language(request *http.Request) i18n.Language {
	return ctxutil.GetLanguage(request.Context())
}
