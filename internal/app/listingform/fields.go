// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listingform

import (
	"strconv"
	"strings"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/client"
	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/validate"
)

// Non-localized inputs.
const (
	FieldPrice    = "price"
	FieldCapacity = catalog.FieldCapacity
)

// Step identifiers.
const (
	StepBasics  = "basics"
	StepDetails = "details"
	StepImage   = "image"
)

// layout is the field set of one step.
type layout struct {
	id        string
	localized []i18n.Field
	plain     []string
}

// layouts returns the steps of kind in display order.
func layouts(kind catalog.Kind) []layout {
	basics := layout{id: StepBasics, localized: []i18n.Field{catalog.FieldName, catalog.FieldDescription}}
	image := layout{id: StepImage}

	switch kind {
	case catalog.KindPlaces:
		return []layout{basics, {id: StepDetails, localized: []i18n.Field{catalog.FieldAddress}, plain: []string{FieldCapacity, FieldPrice}}, image}
	case catalog.KindArtists:
		return []layout{basics, {id: StepDetails, localized: []i18n.Field{catalog.FieldGenre, catalog.FieldExperience}, plain: []string{FieldPrice}}, image}
	case catalog.KindRentals:
		return []layout{basics, {id: StepDetails, localized: []i18n.Field{catalog.FieldSpecs}, plain: []string{FieldPrice}}, image}
	}
	return nil
}

// checkStep applies the client-side constraints of one step.
func checkStep(lang i18n.Language, step layout, values map[string]string) []*client.ValidationError {
	validator := validate.In(lang)

	for _, field := range step.localized {
		limit := catalog.TextMaxLength
		if field == catalog.FieldName || field == catalog.FieldGenre {
			limit = catalog.NameMaxLength
		}
		for _, lang := range i18n.Supported() {
			key := i18n.WritableField(field, lang)
			validator.MaxLen(key, values[key], limit)
		}
		if field == catalog.FieldName {
			validator.Required(string(field), values[string(field)])
		}
	}

	for _, name := range step.plain {
		switch name {
		case FieldPrice:
			validator.Required(name, values[name]).MaxLen(name, values[name], catalog.NameMaxLength)
		case FieldCapacity:
			raw := strings.TrimSpace(values[name])
			capacity, err := strconv.Atoi(raw)
			validator.Custom(name, raw != "" && (err != nil || capacity < 0), i18n.KeyValidateNonNegative)
		}
	}

	appErr := apperr.As(validator.Err())
	if appErr == nil {
		return nil
	}
	out := make([]*client.ValidationError, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		out = append(out, &client.ValidationError{Field: detail.Field, Message: detail.Message})
	}
	return out
}
