// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns listing names and file names into ASCII path segments.
//
// Kyrgyz and Russian Cyrillic is transliterated first ("Ала-Тоо зал" becomes
// "ala-too-zal"), then Latin accents are stripped. Anything else that is not
// a letter or digit collapses into single hyphens.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cyrillic maps lowercase Cyrillic letters, including the Kyrgyz ң, ө and ү.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'ң': "ng", 'о': "o", 'ө': "o", 'п': "p", 'р': "r", 'с': "s",
	'т': "t", 'у': "u", 'ү': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
}

var stripMarks = transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}), norm.NFC)

// From returns the slug of s, or "" when nothing usable remains.
func From(s string) string {
	var latin strings.Builder
	for _, r := range strings.ToLower(s) {
		if mapped, ok := cyrillic[r]; ok {
			latin.WriteString(mapped)
			continue
		}
		latin.WriteRune(r)
	}

	plain, _, err := transform.String(stripMarks, latin.String())
	if err != nil {
		plain = latin.String()
	}

	var out strings.Builder
	hyphen := false
	for _, r := range plain {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if hyphen && out.Len() > 0 {
				out.WriteByte('-')
			}
			out.WriteRune(r)
			hyphen = false
			continue
		}
		hyphen = true
	}
	return out.String()
}
