// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"time"

	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/validate"
)

// # Localizable Fields

const (
	FieldName        i18n.Field = "name"
	FieldDescription i18n.Field = "description"
	FieldAddress     i18n.Field = "address"
	FieldGenre       i18n.Field = "genre"
	FieldExperience  i18n.Field = "experience"
	FieldSpecs       i18n.Field = "specs"
)

// Non-localized field names used in validation errors.
const (
	FieldCapacity = "capacity"
	FieldImageURL = "image_url"
	FieldID       = "id"
)

const (
	// NameMaxLength bounds the base and shadow names.
	NameMaxLength = 200

	// TextMaxLength bounds every long text field.
	TextMaxLength = 5000
)

// # Entities

// Listing is the shape shared by every catalog kind.
//
// Base text fields hold the default-language value; the _kg and _ru fields are
// optional shadows. OwnerID is fixed at creation.
type Listing struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	NameKG        *string   `json:"name_kg"`
	NameRU        *string   `json:"name_ru"`
	Description   string    `json:"description"`
	DescriptionKG *string   `json:"description_kg"`
	DescriptionRU *string   `json:"description_ru"`
	Price         string    `json:"price"`
	Rating        float64   `json:"rating"`
	ImageURL      *string   `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Base returns the shared part of the listing.
func (l *Listing) Base() *Listing {
	return l
}

// Localized implements [i18n.Record] for the shared fields.
func (l *Listing) Localized(field i18n.Field) (i18n.Text, bool) {
	switch field {
	case FieldName:
		return i18n.Text{Base: l.Name, Kyrgyz: l.NameKG, Russian: l.NameRU}, true
	case FieldDescription:
		return i18n.Text{Base: l.Description, Kyrgyz: l.DescriptionKG, Russian: l.DescriptionRU}, true
	}
	return i18n.Text{}, false
}

// Image returns the image URL or "".
func (l *Listing) Image() string {
	if l.ImageURL == nil {
		return ""
	}
	return *l.ImageURL
}

func (l *Listing) validate(validator *validate.Validator) {
	validator.Required(string(FieldName), l.Name).
		MaxLen(string(FieldName), l.Name, NameMaxLength).
		MaxLen(string(FieldDescription), l.Description, TextMaxLength).
		MaxLen("price", l.Price, NameMaxLength)

	checkShadow(validator, FieldName, l.NameKG, l.NameRU, NameMaxLength)
	checkShadow(validator, FieldDescription, l.DescriptionKG, l.DescriptionRU, TextMaxLength)

	if image := l.Image(); image != "" {
		validator.URL(FieldImageURL, image)
	}
}

func checkShadow(validator *validate.Validator, field i18n.Field, kyrgyz, russian *string, max int) {
	if kyrgyz != nil {
		validator.MaxLen(i18n.ShadowField(field, i18n.Kyrgyz), *kyrgyz, max)
	}
	if russian != nil {
		validator.MaxLen(i18n.ShadowField(field, i18n.Russian), *russian, max)
	}
}

// Venue is a place that hosts events.
type Venue struct {
	Listing
	Address   string  `json:"address"`
	AddressKG *string `json:"address_kg"`
	AddressRU *string `json:"address_ru"`
	Capacity  int     `json:"capacity"`
}

// Localized implements [i18n.Record].
func (v *Venue) Localized(field i18n.Field) (i18n.Text, bool) {
	if field == FieldAddress {
		return i18n.Text{Base: v.Address, Kyrgyz: v.AddressKG, Russian: v.AddressRU}, true
	}
	return v.Listing.Localized(field)
}

func (v *Venue) validate(validator *validate.Validator) {
	v.Listing.validate(validator)
	validator.MaxLen(string(FieldAddress), v.Address, TextMaxLength).
		Custom(FieldCapacity, v.Capacity < 0, i18n.KeyValidateNonNegative)
	checkShadow(validator, FieldAddress, v.AddressKG, v.AddressRU, TextMaxLength)
}

// Artist is a performer or band.
type Artist struct {
	Listing
	Genre        string  `json:"genre"`
	GenreKG      *string `json:"genre_kg"`
	GenreRU      *string `json:"genre_ru"`
	Experience   string  `json:"experience"`
	ExperienceKG *string `json:"experience_kg"`
	ExperienceRU *string `json:"experience_ru"`
}

// Localized implements [i18n.Record].
func (a *Artist) Localized(field i18n.Field) (i18n.Text, bool) {
	switch field {
	case FieldGenre:
		return i18n.Text{Base: a.Genre, Kyrgyz: a.GenreKG, Russian: a.GenreRU}, true
	case FieldExperience:
		return i18n.Text{Base: a.Experience, Kyrgyz: a.ExperienceKG, Russian: a.ExperienceRU}, true
	}
	return a.Listing.Localized(field)
}

func (a *Artist) validate(validator *validate.Validator) {
	a.Listing.validate(validator)
	validator.MaxLen(string(FieldGenre), a.Genre, NameMaxLength).
		MaxLen(string(FieldExperience), a.Experience, TextMaxLength)
	checkShadow(validator, FieldGenre, a.GenreKG, a.GenreRU, NameMaxLength)
	checkShadow(validator, FieldExperience, a.ExperienceKG, a.ExperienceRU, TextMaxLength)
}

// Rental is a piece of equipment for hire.
type Rental struct {
	Listing
	Specs   string  `json:"specs"`
	SpecsKG *string `json:"specs_kg"`
	SpecsRU *string `json:"specs_ru"`
}

// Localized implements [i18n.Record].
func (r *Rental) Localized(field i18n.Field) (i18n.Text, bool) {
	if field == FieldSpecs {
		return i18n.Text{Base: r.Specs, Kyrgyz: r.SpecsKG, Russian: r.SpecsRU}, true
	}
	return r.Listing.Localized(field)
}

func (r *Rental) validate(validator *validate.Validator) {
	r.Listing.validate(validator)
	validator.MaxLen(string(FieldSpecs), r.Specs, TextMaxLength)
	checkShadow(validator, FieldSpecs, r.SpecsKG, r.SpecsRU, TextMaxLength)
}

// # Item Contract

// Item is implemented by *Venue, *Artist and *Rental.
type Item interface {
	i18n.Record
	Base() *Listing
	validate(validator *validate.Validator)
}

// Validate checks the field constraints of any catalog item, reporting in lang.
func Validate(lang i18n.Language, item Item) error {
	validator := validate.In(lang)
	item.validate(validator)
	return validator.Err()
}

// Fields lists the localizable fields of each kind in form order.
func Fields(kind Kind) []i18n.Field {
	switch kind {
	case KindPlaces:
		return []i18n.Field{FieldName, FieldDescription, FieldAddress}
	case KindArtists:
		return []i18n.Field{FieldName, FieldDescription, FieldGenre, FieldExperience}
	case KindRentals:
		return []i18n.Field{FieldName, FieldDescription, FieldSpecs}
	}
	return nil
}
