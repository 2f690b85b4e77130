// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var defaultBundle = mustLoadEmbedded()

// catalogFile is the on-disk shape of a locale file.
type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the UI copy of every supported language.
type Bundle struct {
	messages map[Language]map[string]string
	builder  *catalog.Builder
	printers map[Language]*message.Printer
}

// DefaultBundle returns the process-wide bundle built from the embedded locales.
func DefaultBundle() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the locale files compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS loads every locales/*.yaml file found in fsys.
//
// Each file must name a supported locale and the default language must be present.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("i18n: glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("i18n: no locale files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{
		messages: map[Language]map[string]string{},
		builder:  catalog.NewBuilder(catalog.Fallback(Default.Tag())),
		printers: map[Language]*message.Printer{},
	}

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", path, err)
		}

		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", path, err)
		}

		lang, ok := Parse(file.Locale)
		if !ok {
			return nil, fmt.Errorf("i18n: %s: unsupported locale %q", path, file.Locale)
		}

		if err := bundle.add(lang, file.Messages); err != nil {
			return nil, fmt.Errorf("i18n: %s: %w", path, err)
		}
	}

	if _, ok := bundle.messages[Default]; !ok {
		return nil, fmt.Errorf("i18n: default locale %s is missing", Default)
	}

	for lang := range bundle.messages {
		bundle.printers[lang] = message.NewPrinter(lang.Tag(), message.Catalog(bundle.builder))
	}

	return bundle, nil
}

// add registers messages for lang in both the lookup map and the catalog builder.
func (bundle *Bundle) add(lang Language, messages map[string]string) error {
	target, ok := bundle.messages[lang]
	if !ok {
		target = map[string]string{}
		bundle.messages[lang] = target
	}

	for key, text := range messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("empty message key")
		}
		if err := bundle.builder.SetString(lang.Tag(), key, text); err != nil {
			return fmt.Errorf("register %q: %w", key, err)
		}
		target[key] = text
	}

	return nil
}

// Has reports whether lang defines key.
func (bundle *Bundle) Has(lang Language, key string) bool {
	if bundle == nil {
		return false
	}
	_, ok := bundle.messages[lang][key]
	return ok
}

// T returns the UI copy for key in lang, formatted with args.
//
// Missing keys fall back to the default language, then to the key itself.
func (bundle *Bundle) T(lang Language, key string, args ...any) string {
	if bundle == nil {
		return key
	}

	switch {
	case bundle.Has(lang, key):
		return bundle.printers[lang].Sprintf(key, args...)
	case bundle.Has(Default, key):
		return bundle.printers[Default].Sprintf(key, args...)
	default:
		return key
	}
}

// Keys returns the sorted message keys defined for lang.
func (bundle *Bundle) Keys(lang Language) []string {
	keys := make([]string, 0, len(bundle.messages[lang]))
	for key := range bundle.messages[lang] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}
