// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package validation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var cyrillicTranslit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "i", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "iu", 'я': "ia",
}

// stripMarks removes combining accents after NFKD decomposition ("é" -> "e").
// Transformers are stateful, so each call builds its own chain.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeText trims and NFC-normalizes user-visible names so that the same
// word typed on different keyboards compares equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Slugify derives a latin slug from a tag name: Cyrillic is transliterated,
// accents are dropped, runs of other characters become a single hyphen.
// The result may be empty when nothing usable remains.
func Slugify(name string) string {
	plain, _, err := transform.String(stripMarks(), strings.ToLower(name))
	if err != nil {
		plain = strings.ToLower(name)
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range plain {
		var chunk string
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			chunk = string(r)
		case cyrillicTranslit[r] != "" || r == 'ъ' || r == 'ь':
			chunk = cyrillicTranslit[r]
		default:
			pendingDash = b.Len() > 0
			continue
		}
		if chunk == "" {
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteString(chunk)
	}

	slug := b.String()
	if len(slug) > 200 {
		slug = strings.TrimRight(slug[:200], "-")
	}
	return slug
}
