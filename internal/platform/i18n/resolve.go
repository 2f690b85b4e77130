// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package i18n

import "github.com/toikana/marketplace/pkg/pointer"

// # Localizable Values

// Field names a localizable text field of a record (e.g. "name").
type Field string

// Text is one localizable field: the canonical value plus optional shadows.
//
// A nil shadow, an empty shadow and a missing shadow all mean "not supplied".
type Text struct {
	Base    string
	Kyrgyz  *string
	Russian *string
}

// Record is implemented by every entity that carries localizable fields.
//
// Localized reports false for fields that are not part of the localization
// convention (ids, ratings, timestamps).
type Record interface {
	Localized(field Field) (Text, bool)
}

// Shadow returns the shadow value stored for lang, or nil.
func (t Text) Shadow(lang Language) *string {
	if lang == Russian {
		return t.Russian
	}
	return t.Kyrgyz
}

// Resolve returns the value shown for lang.
//
// The shadow wins when it holds a non-empty string, then the base value,
// then the empty string.
func (t Text) Resolve(lang Language) string {
	if shadow := t.Shadow(lang); shadow != nil && *shadow != "" {
		return *shadow
	}
	return t.Base
}

// Resolve looks up field on record and resolves it for lang.
//
// A nil record or a field outside the convention resolves to "".
func Resolve(record Record, field Field, lang Language) string {
	if record == nil {
		return ""
	}

	text, ok := record.Localized(field)
	if !ok {
		return ""
	}

	return text.Resolve(lang)
}

// # Storage Keys

// ShadowField returns the storage key of the shadow field for lang (e.g. "name_ru").
func ShadowField(field Field, lang Language) string {
	return string(field) + "_" + lang.Suffix()
}

// WritableField returns the storage key a form input in lang binds to.
//
// Input in the default language writes the base field; input in the alternate
// language writes its shadow field.
func WritableField(field Field, lang Language) string {
	if lang.IsDefault() {
		return string(field)
	}
	return ShadowField(field, lang)
}

// Set stores value into the slot of t that [WritableField] names for lang.
func (t *Text) Set(lang Language, value string) {
	if lang.IsDefault() {
		t.Base = value
		return
	}

	t.Russian = pointer.NonBlank(value)
}
