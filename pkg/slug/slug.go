// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns article titles into the readable tail of a share link
// (e.g., "/post/12-sessiz-gece").
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds a slug; longer titles are cut at a word boundary.
const MaxLength = 60

// dotless maps the letters NFD leaves intact to their ASCII base.
var dotless = strings.NewReplacer("ı", "i", "ø", "o", "Ø", "o", "ß", "ss", "æ", "ae", "Æ", "ae")

// From converts a title into a lowercase ASCII slug of words joined by
// single hyphens. A title with no letters or digits yields "".
func From(title string) string {

	// 1. Strip diacritics: NFD splits "ş" into "s" plus a combining cedilla.
	stripped, _, _ := transform.String(transform.Chain(norm.NFD, transform.RemoveFunc(isMark)), dotless.Replace(title))

	// 2. Keep ASCII letters and digits, collapse everything else to one hyphen.
	var builder strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	// 3. Bound the length without leaving half a word.
	result := builder.String()
	if len(result) > MaxLength {
		result = result[:MaxLength]
		if cut := strings.LastIndexByte(result, '-'); cut > 0 {
			result = result[:cut]
		}
	}
	return result
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
