// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rigeo

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

// scalePattern finds "1:100.000", "1/50000", "1 : 250 000", "250k" and
// "escala 100 mil" style scale mentions. A bare "N mil" is a count, not a
// scale.
var scalePattern = regexp.MustCompile(
	`(?i)\b1\s*[:/]\s*(\d{1,3}(?:[.,\s]\d{3})+|\d{4,7})\b` +
		`|\b(\d{2,3})\s*k\b` +
		`|\bescala\s+(?:de\s+)?(\d{2,3})\s*mil\b`)

var digitGroups = regexp.MustCompile(`\d+`)

// DetectScale returns the bucket of the leftmost recognized scale mention in
// text, or ScaleOther when none is found. Mentions of other denominators
// (1:25.000, 1:1.000.000) are skipped.
func DetectScale(text string) types.Scale {
	for _, m := range scalePattern.FindAllStringSubmatch(text, -1) {
		var s types.Scale
		switch {
		case m[1] != "":
			s = denominatorScale(m[1])
		case m[2] != "":
			s = byDenominator[m[2]+"000"]
		case m[3] != "":
			s = byDenominator[m[3]+"000"]
		}
		if s != "" {
			return s
		}
	}
	return types.ScaleOther
}

// denominatorScale resolves a grouped denominator. The separator class also
// matches the space before a following number ("1:50.000 200"), so shorter
// group prefixes are tried when the whole run is not a known denominator.
func denominatorScale(run string) types.Scale {
	groups := digitGroups.FindAllString(run, -1)
	for n := len(groups); n > 0; n-- {
		if s, ok := byDenominator[strings.Join(groups[:n], "")]; ok {
			return s
		}
	}
	return ""
}

var byDenominator = map[string]types.Scale{
	"250000": types.Scale250k,
	"100000": types.Scale100k,
	"50000":  types.Scale50k,
}
