// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes the JSON envelopes of the marketplace API.
//
//	{"data": ...}                        success
//	{"data": [...], "meta": {...}}       paginated success
//	{"error": "...", "code": "...", "details": [...]}
//
// The terminal client decodes every response with these three shapes.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/pkg/pagination"
)

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload with status.
func JSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		slog.Debug("respond_encode_failed", slog.Any("error", err))
	}
}

func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

func Paginated(writer http.ResponseWriter, data any, meta pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: meta})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error renders err. Anything that is not an [apperr.AppError] becomes a
// generic 500 so storage details never reach the client. Server errors are
// logged with their cause; keyed errors are translated into the request
// language.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()

	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err).WithKey(i18n.KeyErrInternal)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appErr.Code),
			slog.Any("cause", appErr.Cause),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
		)
	}

	message := appErr.Message
	if appErr.Key != "" {
		message = i18n.DefaultBundle().T(ctxutil.GetLanguage(ctx), appErr.Key)
	}
	JSON(writer, appErr.HTTPStatus, ErrorEnvelope{Error: message, Code: appErr.Code, Details: appErr.Details})
}
