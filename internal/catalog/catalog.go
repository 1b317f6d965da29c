// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the precomputed state -> city -> sheet-code table and
// answers exact and approximate municipality lookups against it. A Catalog is
// built once (see LoadFile) and is read-only afterwards, so it is safe for
// concurrent use.
package catalog

import (
	"sort"
	"strings"

	"github.com/pdiddy/sheetfinder/internal/normalize"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// maxSuggestions caps the names returned on a lookup miss.
const maxSuggestions = 10

// sampleSize is the number of cities reported by Stats.
const sampleSize = 5

// Catalog is an immutable index of municipalities and their sheet codes.
type Catalog struct {
	states map[string]*stateIndex
	order  []string
	cities int
	sheets int
}

type stateIndex struct {
	entries []types.CityIndexEntry
	keys    []string       // normalized city names, parallel to entries
	byKey   map[string]int // normalized city name -> index in entries
}

// Match is the outcome of a lookup. Exact is nil on a miss; Suggestions is
// empty (never nil) on an exact hit or an unknown state.
type Match struct {
	Exact       *types.CityIndexEntry `json:"exact"`
	Suggestions []string              `json:"suggestions"`
}

// CityRef names one catalog city.
type CityRef struct {
	State string `json:"uf"`
	City  string `json:"city"`
}

// Stats summarizes the catalog contents.
type Stats struct {
	States int       `json:"states"`
	Cities int       `json:"cities"`
	Sheets int       `json:"sheets"`
	Sample []CityRef `json:"sample"`
}

// New builds a catalog from entries, keeping their order. State codes are
// trimmed and uppercased; sheet codes are canonicalized. Two entries naming
// the same city (after normalization) in one state are merged into the
// first.
func New(entries []types.CityIndexEntry) *Catalog {
	c := &Catalog{states: make(map[string]*stateIndex)}
	for _, e := range entries {
		state := normalizeState(e.State)
		key := normalize.Key(e.City)
		if state == "" || key == "" {
			continue
		}
		e.State = state
		e.City = strings.TrimSpace(e.City)

		idx, ok := c.states[state]
		if !ok {
			idx = &stateIndex{byKey: make(map[string]int)}
			c.states[state] = idx
			c.order = append(c.order, state)
		}

		if pos, dup := idx.byKey[key]; dup {
			merged := idx.entries[pos]
			merged.K250 = appendCodes(merged.K250, e.K250)
			merged.K100 = appendCodes(merged.K100, e.K100)
			merged.K50 = appendCodes(merged.K50, e.K50)
			idx.entries[pos] = merged
			continue
		}

		e.K250 = appendCodes(nil, e.K250)
		e.K100 = appendCodes(nil, e.K100)
		e.K50 = appendCodes(nil, e.K50)
		idx.byKey[key] = len(idx.entries)
		idx.entries = append(idx.entries, e)
		idx.keys = append(idx.keys, key)
		c.cities++
	}
	for _, idx := range c.states {
		for _, e := range idx.entries {
			c.sheets += len(e.K250) + len(e.K100) + len(e.K50)
		}
	}
	return c
}

// appendCodes adds the canonical, non-empty codes of src to dst, skipping
// codes already present.
func appendCodes(dst, src []types.SheetCode) []types.SheetCode {
	for _, raw := range src {
		code := normalize.CanonicalizeCode(string(raw))
		if code == "" || containsCode(dst, code) {
			continue
		}
		dst = append(dst, code)
	}
	return dst
}

func containsCode(codes []types.SheetCode, c types.SheetCode) bool {
	for _, x := range codes {
		if x == c {
			return true
		}
	}
	return false
}

func normalizeState(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Lookup finds city within state. An exact match on normalized names returns
// immediately without suggestions. On a miss every city of the state is
// scored (one point for not starting with the query, one more for not
// containing it) and up to 10 names are returned, best score first, ties in
// catalog order. An unknown state yields an empty match.
func (c *Catalog) Lookup(state, city string) Match {
	miss := Match{Suggestions: []string{}}
	if c == nil {
		return miss
	}
	idx, ok := c.states[normalizeState(state)]
	if !ok {
		return miss
	}

	q := normalize.Key(city)
	if pos, ok := idx.byKey[q]; ok {
		e := idx.entries[pos]
		return Match{Exact: &e, Suggestions: []string{}}
	}

	type scored struct {
		name  string
		score int
	}
	candidates := make([]scored, len(idx.entries))
	for i, key := range idx.keys {
		score := 0
		if !strings.HasPrefix(key, q) {
			score++
		}
		if !strings.Contains(key, q) {
			score++
		}
		candidates[i] = scored{name: idx.entries[i].City, score: score}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	n := min(len(candidates), maxSuggestions)
	miss.Suggestions = make([]string, 0, n)
	for _, s := range candidates[:n] {
		miss.Suggestions = append(miss.Suggestions, s.name)
	}
	return miss
}

// States returns the state codes in load order.
func (c *Catalog) States() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Len returns the number of cities in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return c.cities
}

// Stats reports counts and the first few cities in load order.
func (c *Catalog) Stats() Stats {
	s := Stats{Sample: []CityRef{}}
	if c == nil {
		return s
	}
	s.States = len(c.order)
	s.Cities = c.cities
	s.Sheets = c.sheets
	for _, state := range c.order {
		for _, e := range c.states[state].entries {
			if len(s.Sample) == sampleSize {
				return s
			}
			s.Sample = append(s.Sample, CityRef{State: e.State, City: e.City})
		}
	}
	return s
}
