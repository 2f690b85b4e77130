// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level failures and turns them into one
// VALIDATION_ERROR [apperr.AppError].
//
// Messages are rendered from the i18n bundle in the validator's language, so
// the same rule reads "Обязательное поле" for a Russian caller and
// "Милдеттүү талаа" for a Kyrgyz one. A Validator is single-use and not safe
// for concurrent use.
package validate

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/pkg/uuid"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload").WithKey(i18n.KeyErrValidation)

// Kyrgyz mobile numbers: +996 and nine digits, or a leading 0 and nine digits.
var phonePattern = regexp.MustCompile(`^(\+996|0)[0-9]{9}$|^\+[0-9]{10,15}$`)

// Validator accumulates failures. The zero value reports in [i18n.Default].
type Validator struct {
	Lang   i18n.Language
	failed []apperr.FieldError
}

// In returns a validator reporting in lang.
func In(lang i18n.Language) *Validator {
	return &Validator{Lang: lang}
}

func (v *Validator) fail(field, key string, args ...any) *Validator {
	lang := v.Lang
	if lang == "" {
		lang = i18n.Default
	}
	v.failed = append(v.failed, apperr.FieldError{
		Field:   field,
		Message: i18n.DefaultBundle().T(lang, key, args...),
	})
	return v
}

// Custom records key (rendered with args) against field when failed is true.
// A key missing from the bundle is used verbatim.
func (v *Validator) Custom(field string, failed bool, key string, args ...any) *Validator {
	if failed {
		v.fail(field, key, args...)
	}
	return v
}

func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(field, strings.TrimSpace(value) == "", i18n.KeyValidateRequired)
}

// MaxLen counts runes, so Cyrillic text gets the same budget as Latin.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) > max, i18n.KeyValidateMaxLen, max)
}

func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) < min, i18n.KeyValidateMinLen, min)
}

func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.Custom(field, err != nil || address.Address != strings.TrimSpace(value), i18n.KeyValidateEmail)
}

// URL accepts absolute http and https URLs only.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	ok := err == nil && parsed.Host != "" && (parsed.Scheme == "http" || parsed.Scheme == "https")
	return v.Custom(field, !ok, i18n.KeyValidateURL)
}

// Phone ignores spaces and dashes.
func (v *Validator) Phone(field, value string) *Validator {
	compact := strings.NewReplacer(" ", "", "-", "").Replace(value)
	return v.Custom(field, !phonePattern.MatchString(compact), i18n.KeyValidatePhone)
}

func (v *Validator) UUID(field, value string) *Validator {
	return v.Custom(field, !uuid.Valid(value), i18n.KeyValidateUUID)
}

// OneOf requires value to be one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	return v.fail(field, i18n.KeyValidateOneOf, strings.Join(allowed, ", "))
}

func (v *Validator) HasErrors() bool {
	return len(v.failed) > 0
}

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.failed) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failed...).WithKey(i18n.KeyErrValidation)
}
