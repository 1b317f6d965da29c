// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import "github.com/pdiddy/sheetfinder/pkg/types"

// merge flattens unit results in unit order then candidate order, keeping
// the first result for each (code, scale) pair and each collection page.
// Results without a code are only deduplicated by collection page.
func merge(units [][]types.SheetResult) []types.SheetResult {
	seen := make(map[string]bool)
	var out []types.SheetResult
	for _, rs := range units {
		for _, r := range rs {
			var keys []string
			if r.Code != "" {
				keys = append(keys, "code:"+string(r.Code)+"|"+string(r.Scale))
			}
			if r.Links.CollectionPage != "" {
				keys = append(keys, "page:"+r.Links.CollectionPage)
			}
			if duplicate(seen, keys) {
				continue
			}
			for _, k := range keys {
				seen[k] = true
			}
			out = append(out, r)
		}
	}
	return out
}

func duplicate(seen map[string]bool, keys []string) bool {
	for _, k := range keys {
		if seen[k] {
			return true
		}
	}
	return false
}
