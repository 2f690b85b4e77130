// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/toikana/marketplace/internal/platform/apperr"
)

// # Error Taxonomy

// APIError is a non-2xx answer decoded from the API error envelope.
//
// Message is already localized by the server into the request language.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []apperr.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// AuthError wraps a failed authentication call (bad credentials, duplicate
// registration, rate limiting, weak password).
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string { return "auth: " + e.Cause.Error() }
func (e *AuthError) Unwrap() error { return e.Cause }

// PersistenceError wraps a failed read or write of marketplace data.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Cause.Error() }
func (e *PersistenceError) Unwrap() error { return e.Cause }

// ValidationError is a field constraint failure detected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// UploadError blocks one image upload. Reason is a translation key.
type UploadError struct {
	Reason string
	Cause  error
}

func (e *UploadError) Error() string {
	if e.Cause == nil {
		return "upload: " + e.Reason
	}
	return "upload: " + e.Reason + ": " + e.Cause.Error()
}

func (e *UploadError) Unwrap() error { return e.Cause }

// # Helpers

// ErrNoSession is returned by calls that need a signed-in identity.
var ErrNoSession = errors.New("client: not signed in")

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 answer.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// Message returns the user-facing text of err: the server message when the
// API answered, otherwise the error string.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return err.Error()
}
