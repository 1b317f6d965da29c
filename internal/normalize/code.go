// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"unicode"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

// CanonicalizeCode returns the dash-separated canonical form of a sheet code:
// "sc.22 z_a", "SC_22.Z-A" and "SC-22-Z-A" all become "SC-22-Z-A".
func CanonicalizeCode(raw string) types.SheetCode {
	s := strings.ToUpper(Fold(raw))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case isSeparator(r):
			pendingSep = true
		}
	}
	return types.SheetCode(b.String())
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '_', '.', '/', '\u2013', '\u2014':
		return true
	}
	return unicode.IsSpace(r)
}

// CodeVariants holds the spellings of one sheet code used in remote queries.
type CodeVariants struct {
	Dash  string // SC-24-V-A
	Dot   string // SC.24.V.A
	Space string // SC 24 V A
	Mixed string // SC.24-V-A, the nomenclature form used in repository titles
}

// All lists the distinct non-empty spellings, dash form first.
func (v CodeVariants) All() []string {
	var out []string
	seen := make(map[string]bool, 4)
	for _, s := range []string{v.Dash, v.Dot, v.Space, v.Mixed} {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Variants builds the alternate spellings of code. The input is
// canonicalized first, so any separator style yields the same variants.
func Variants(code types.SheetCode) CodeVariants {
	c := CanonicalizeCode(string(code))
	if c == "" {
		return CodeVariants{}
	}
	parts := strings.Split(string(c), "-")
	v := CodeVariants{
		Dash:  string(c),
		Dot:   strings.Join(parts, "."),
		Space: strings.Join(parts, " "),
		Mixed: string(c),
	}
	if len(parts) > 1 {
		v.Mixed = parts[0] + "." + strings.Join(parts[1:], "-")
	}
	return v
}
