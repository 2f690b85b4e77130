// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by the marketplace API services.

An [AppError] pairs a stable machine code with a client-safe message. The HTTP
status is derived from the code, so a handler never picks one by hand. When a
translation Key is set, the rendered message comes from the i18n bundle in the
request language instead of Message.

Storage and transport failures are wrapped with [Internal]; their Cause is
logged and never sent to clients.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnprocessable      = "UNPROCESSABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var statusOf = map[string]int{
	CodeNotFound:           http.StatusNotFound,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeConflict:           http.StatusConflict,
	CodeValidation:         http.StatusBadRequest,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeUnprocessable:      http.StatusUnprocessableEntity,
	CodeInternal:           http.StatusInternalServerError,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
}

// AppError is the error type every service returns to its handler.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	Key        string       `json:"-"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one rejected input field. Message is already localized.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New builds an error for code. Unknown codes render as 500.
func New(code, message string) *AppError {
	status, ok := statusOf[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithKey returns a copy rendered through the translation key.
func (e *AppError) WithKey(key string) *AppError {
	clone := *e
	clone.Key = key
	return &clone
}

// WithCause returns a copy that carries cause for the server log.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Constructors

// NotFound reports a missing resource, e.g. NotFound("Venue") is "Venue not found".
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func Unauthorized(message string) *AppError { return New(CodeUnauthorized, message) }

func Forbidden(message string) *AppError { return New(CodeForbidden, message) }

func Conflict(message string) *AppError { return New(CodeConflict, message) }

func Unprocessable(message string) *AppError { return New(CodeUnprocessable, message) }

func ServiceUnavailable(message string) *AppError { return New(CodeServiceUnavailable, message) }

// ValidationError reports rejected input with optional per-field details.
func ValidationError(message string, details ...FieldError) *AppError {
	err := New(CodeValidation, message)
	err.Details = details
	return err
}

// Internal hides cause behind a generic 500.
func Internal(cause error) *AppError {
	err := New(CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var target *AppError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

func IsAppError(err error) bool { return As(err) != nil }

// HasCode reports whether err's chain holds an [*AppError] with code.
func HasCode(err error, code string) bool {
	target := As(err)
	return target != nil && target.Code == code
}

func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }
