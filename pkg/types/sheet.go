// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sheetfinder engine:
// sheet codes, scale buckets, catalog entries, classified link sets, and the
// scale-partitioned search response.
package types

// SheetCode is a canonical map-sheet identifier matching [A-Z0-9-]+
// (e.g. "SC-24-V-A"). Build one with normalize.CanonicalizeCode.
type SheetCode string

// Scale is the map resolution bucket a sheet belongs to.
type Scale string

const (
	Scale250k  Scale = "250k"
	Scale100k  Scale = "100k"
	Scale50k   Scale = "50k"
	ScaleOther Scale = "other"
)

// Scales lists the known buckets from coarsest to finest, followed by other.
var Scales = []Scale{Scale250k, Scale100k, Scale50k, ScaleOther}

// Label returns the human-readable label used by the UI for the bucket.
func (s Scale) Label() string {
	switch s {
	case Scale250k:
		return "1:250.000"
	case Scale100k:
		return "1:100.000"
	case Scale50k:
		return "1:50.000"
	default:
		return "Outros"
	}
}

// Denominator returns the scale denominator (250000 for 250k), or 0 for other.
func (s Scale) Denominator() int {
	switch s {
	case Scale250k:
		return 250000
	case Scale100k:
		return 100000
	case Scale50k:
		return 50000
	default:
		return 0
	}
}

// CityIndexEntry is one municipality in the local catalog with its sheet
// codes grouped by scale. Entries are immutable once the catalog is loaded.
type CityIndexEntry struct {
	State string      `json:"state" yaml:"state"`
	City  string      `json:"city" yaml:"city"`
	K250  []SheetCode `json:"k250" yaml:"k250"`
	K100  []SheetCode `json:"k100" yaml:"k100"`
	K50   []SheetCode `json:"k50" yaml:"k50"`
}

// ScaledCode pairs a sheet code with the bucket the catalog expects it in.
type ScaledCode struct {
	Code  SheetCode `json:"code"`
	Scale Scale     `json:"scale"`
}

// CodesFor returns the codes listed for one scale bucket.
func (e CityIndexEntry) CodesFor(s Scale) []SheetCode {
	switch s {
	case Scale250k:
		return e.K250
	case Scale100k:
		return e.K100
	case Scale50k:
		return e.K50
	default:
		return nil
	}
}

// Codes returns every code of the entry in 250k, 100k, 50k order. A code
// listed under several scales is reported once, under its first scale.
func (e CityIndexEntry) Codes() []ScaledCode {
	seen := make(map[SheetCode]bool)
	var out []ScaledCode
	for _, s := range []Scale{Scale250k, Scale100k, Scale50k} {
		for _, c := range e.CodesFor(s) {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, ScaledCode{Code: c, Scale: s})
		}
	}
	return out
}

// LinkSet holds at most one URL per artifact category.
type LinkSet struct {
	Geology          string `json:"geology,omitempty" yaml:"geology,omitempty"`
	MineralResources string `json:"mineral_resources,omitempty" yaml:"mineral_resources,omitempty"`
	Report           string `json:"report,omitempty" yaml:"report,omitempty"`
	GISArchive       string `json:"gis_archive,omitempty" yaml:"gis_archive,omitempty"`
	CollectionPage   string `json:"collection_page,omitempty" yaml:"collection_page,omitempty"`
}

// IsEmpty reports whether no category has a URL.
func (l LinkSet) IsEmpty() bool {
	return l == LinkSet{}
}

// ResultKind distinguishes parsed detail pages from synthesized fallbacks.
type ResultKind string

const (
	KindDocument ResultKind = "document"
	KindSearch   ResultKind = "search"
)

// SheetResult is one item of a search response, produced from a detail page
// or synthesized as a fallback when the repository yields nothing.
type SheetResult struct {
	Code              SheetCode  `json:"code,omitempty" yaml:"code,omitempty"`
	Title             string     `json:"title" yaml:"title"`
	Year              string     `json:"year,omitempty" yaml:"year,omitempty"`
	Scale             Scale      `json:"scale" yaml:"scale"`
	Kind              ResultKind `json:"kind" yaml:"kind"`
	Links             LinkSet    `json:"links" yaml:"links"`
	FallbackSearchURL string     `json:"fallback_search_url,omitempty" yaml:"fallback_search_url,omitempty"`
}

// Groups partitions results by scale. All four keys are always serialized.
type Groups struct {
	K250  []SheetResult `json:"k250" yaml:"k250"`
	K100  []SheetResult `json:"k100" yaml:"k100"`
	K50   []SheetResult `json:"k50" yaml:"k50"`
	Other []SheetResult `json:"other" yaml:"other"`
}

// NewGroups returns groups with every bucket initialized to an empty list.
func NewGroups() Groups {
	return Groups{
		K250:  []SheetResult{},
		K100:  []SheetResult{},
		K50:   []SheetResult{},
		Other: []SheetResult{},
	}
}

// Add appends r to the bucket matching its scale; unknown scales go to Other.
func (g *Groups) Add(r SheetResult) {
	switch r.Scale {
	case Scale250k:
		g.K250 = append(g.K250, r)
	case Scale100k:
		g.K100 = append(g.K100, r)
	case Scale50k:
		g.K50 = append(g.K50, r)
	default:
		g.Other = append(g.Other, r)
	}
}

// Bucket returns the results stored for s.
func (g Groups) Bucket(s Scale) []SheetResult {
	switch s {
	case Scale250k:
		return g.K250
	case Scale100k:
		return g.K100
	case Scale50k:
		return g.K50
	default:
		return g.Other
	}
}

// Len returns the total number of results across buckets.
func (g Groups) Len() int {
	return len(g.K250) + len(g.K100) + len(g.K50) + len(g.Other)
}

// SearchResponse is the scale-partitioned answer for one (city, state) query.
type SearchResponse struct {
	City   string `json:"city" yaml:"city"`
	State  string `json:"state" yaml:"state"`
	Groups Groups `json:"groups" yaml:"groups"`

	// Suggestions lists close catalog city names when the place was not
	// found exactly in the catalog.
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}
