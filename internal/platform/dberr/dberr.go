// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx errors into [apperr.AppError] values so that
// repositories never leak SQL details to the API surface.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/toikana/marketplace/internal/platform/apperr"
)

// ErrNotFound is returned for missing rows and malformed identifiers.
var ErrNotFound = apperr.NotFound("Record")

// Wrap classifies err. action names the failing repository call and ends up
// in the log for unclassified failures only.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Record already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.Unprocessable("Linked record is missing").WithCause(err)
		case pgerrcode.CheckViolation:
			return apperr.ValidationError("Value is out of range").WithCause(err)
		case pgerrcode.InvalidTextRepresentation:
			// Path ids that are not UUIDs.
			return ErrNotFound
		}
	}
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
