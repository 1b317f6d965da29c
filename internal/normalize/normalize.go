// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes place names and sheet codes for comparison
// and query construction. Every function is pure.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after canonical decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold removes diacritics ("São Paulo" -> "Sao Paulo") and leaves case and
// spacing untouched.
func Fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// Key returns the comparison form of s: diacritics folded, uppercased,
// internal whitespace collapsed to single spaces, trimmed. Key is idempotent.
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(Fold(s))), " ")
}
