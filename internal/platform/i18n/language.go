// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package i18n implements the bilingual content model of the marketplace.

Every listing stores one canonical value per text field (written in the default
language) plus optional per-language shadow values. This package decides which of
those values is shown for a given UI language, which storage key a form input
binds to, and how UI copy is looked up by key.

Languages:

  - Kyrgyz (ky): the default UI language. Shadow fields use the "kg" suffix.
  - Russian (ru): the alternate UI language. Shadow fields use the "ru" suffix.
*/
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// # Languages

// Language is a supported UI language.
type Language string

const (
	// Kyrgyz is the default language of the application.
	Kyrgyz Language = "ky"

	// Russian is the alternate language.
	Russian Language = "ru"

	// Default is the language used when nothing else was selected.
	Default = Kyrgyz
)

const (
	// QueryParam selects a language for a single request (?lang=ru).
	QueryParam = "lang"

	// CookieName remembers the selected language between requests.
	CookieName = "toikana_lang"
)

var (
	kyrgyzTag  = language.MustParse("ky")
	russianTag = language.Russian

	matcher = language.NewMatcher([]language.Tag{kyrgyzTag, russianTag})
)

// Supported lists the UI languages in display order.
func Supported() []Language {
	return []Language{Kyrgyz, Russian}
}

// Suffix returns the storage suffix used by shadow fields of this language.
func (l Language) Suffix() string {
	if l == Russian {
		return "ru"
	}
	return "kg"
}

// Tag returns the BCP 47 tag of the language.
func (l Language) Tag() language.Tag {
	if l == Russian {
		return russianTag
	}
	return kyrgyzTag
}

// IsDefault reports whether l is the application's default language.
func (l Language) IsDefault() bool {
	return l == Default
}

// String implements [fmt.Stringer].
func (l Language) String() string {
	return string(l)
}

// # Parsing

// Parse maps a user-supplied language value to a supported [Language].
//
// It accepts UI codes ("ky", "ru"), storage suffixes ("kg") and full tags
// ("ky-KG", "ru-RU"). Unknown values report false.
func Parse(value string) (Language, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}

	switch value {
	case "ky", "kg", "kir":
		return Kyrgyz, true
	case "ru", "rus":
		return Russian, true
	}

	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}

	base, _ := tag.Base()
	switch base.String() {
	case "ky":
		return Kyrgyz, true
	case "ru":
		return Russian, true
	}

	return "", false
}

// ParseOrDefault is [Parse] that falls back to [Default].
func ParseOrDefault(value string) Language {
	if lang, ok := Parse(value); ok {
		return lang
	}
	return Default
}

// MatchAcceptLanguage picks the best supported language for an Accept-Language header.
func MatchAcceptLanguage(header string) Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}

	return Supported()[index]
}
