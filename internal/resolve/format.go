// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

// FormatTable writes the response as one table per scale bucket to w.
func FormatTable(resp types.SearchResponse, w io.Writer) {
	fmt.Fprintf(w, "%s / %s\n", resp.City, resp.State)
	if len(resp.Suggestions) > 0 {
		fmt.Fprintf(w, "Not in catalog. Did you mean: %s\n", strings.Join(resp.Suggestions, ", "))
	}
	if resp.Groups.Len() == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for _, s := range types.Scales {
		bucket := resp.Groups.Bucket(s)
		if len(bucket) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", s.Label(), len(bucket))
		fmt.Fprintf(w, "%-12s  %-4s  %-50s  %s\n", "Code", "Year", "Title", "Links")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for _, r := range bucket {
			fmt.Fprintf(w, "%-12s  %-4s  %-50s  %s\n",
				r.Code, r.Year, truncate(r.Title, 50), linkSummary(r))
		}
	}

	fmt.Fprintf(w, "\n%d results\n", resp.Groups.Len())
}

// FormatJSON writes the response as indented JSON to w.
func FormatJSON(resp types.SearchResponse, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func linkSummary(r types.SheetResult) string {
	if r.Kind == types.KindSearch {
		return r.FallbackSearchURL
	}
	var kinds []string
	for _, l := range []struct{ name, url string }{
		{"geology", r.Links.Geology},
		{"minerals", r.Links.MineralResources},
		{"report", r.Links.Report},
		{"gis", r.Links.GISArchive},
	} {
		if l.url != "" {
			kinds = append(kinds, l.name)
		}
	}
	if len(kinds) == 0 {
		return r.Links.CollectionPage
	}
	return strings.Join(kinds, ",") + "  " + r.Links.CollectionPage
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
