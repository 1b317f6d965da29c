// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

func bahia() *Catalog {
	return New([]types.CityIndexEntry{
		{State: "BA", City: "Salvador", K100: []types.SheetCode{"SC-24"}},
		{State: "BA", City: "Feira de Santana", K250: []types.SheetCode{"sc.24 x"}},
		{State: "BA", City: "Santa Cruz Cabrália"},
		{State: "BA", City: "Lauro de Freitas"},
		{State: "SP", City: "São Paulo", K250: []types.SheetCode{"SF-23-Y-C"}},
	})
}

func TestLookupExactHit(t *testing.T) {
	c := bahia()

	m := c.Lookup("BA", "Salvador")
	require.NotNil(t, m.Exact)
	assert.Equal(t, "Salvador", m.Exact.City)
	assert.Equal(t, []types.SheetCode{"SC-24"}, m.Exact.K100)
	assert.NotNil(t, m.Suggestions)
	assert.Empty(t, m.Suggestions)
}

func TestLookupExactIgnoresAccentsCaseAndSpacing(t *testing.T) {
	c := bahia()

	m := c.Lookup(" sp ", "  SAO   paulo ")
	require.NotNil(t, m.Exact)
	assert.Equal(t, "São Paulo", m.Exact.City)
	assert.Empty(t, m.Suggestions)
}

func TestLookupUnknownState(t *testing.T) {
	m := bahia().Lookup("ZZ", "Salvador")
	assert.Nil(t, m.Exact)
	assert.NotNil(t, m.Suggestions)
	assert.Empty(t, m.Suggestions)
}

func TestLookupSuggestionsRanked(t *testing.T) {
	c := bahia()

	m := c.Lookup("BA", "santa")
	assert.Nil(t, m.Exact)
	// "Santa Cruz Cabrália" starts with the query (0); "Feira de Santana"
	// only contains it (1); the rest match neither (2), in catalog order.
	assert.Equal(t, []string{
		"Santa Cruz Cabrália",
		"Feira de Santana",
		"Salvador",
		"Lauro de Freitas",
	}, m.Suggestions)
}

func TestLookupSuggestionsCappedAtTen(t *testing.T) {
	var entries []types.CityIndexEntry
	for i := 0; i < 25; i++ {
		entries = append(entries, types.CityIndexEntry{State: "MG", City: fmt.Sprintf("Cidade %02d", i)})
	}
	c := New(entries)

	m := c.Lookup("MG", "cidade 2")
	require.Len(t, m.Suggestions, 10)
	assert.Equal(t, "Cidade 20", m.Suggestions[0])
	assert.Equal(t, "Cidade 24", m.Suggestions[4])
	assert.Equal(t, "Cidade 00", m.Suggestions[5])
}

func TestLookupNilCatalog(t *testing.T) {
	var c *Catalog
	m := c.Lookup("BA", "Salvador")
	assert.Nil(t, m.Exact)
	assert.Empty(t, m.Suggestions)
}

func TestNewCanonicalizesAndMergesDuplicates(t *testing.T) {
	c := New([]types.CityIndexEntry{
		{State: "ba", City: "Salvador", K100: []types.SheetCode{"SC.24", "sc-24"}},
		{State: "BA", City: "SALVADOR", K100: []types.SheetCode{"SC 24"}, K50: []types.SheetCode{"SC-24-V-A"}},
		{State: "BA", City: ""},
	})

	assert.Equal(t, 1, c.Len())
	m := c.Lookup("BA", "salvador")
	require.NotNil(t, m.Exact)
	assert.Equal(t, []types.SheetCode{"SC-24"}, m.Exact.K100)
	assert.Equal(t, []types.SheetCode{"SC-24-V-A"}, m.Exact.K50)
}

func TestStats(t *testing.T) {
	s := bahia().Stats()
	assert.Equal(t, 2, s.States)
	assert.Equal(t, 5, s.Cities)
	assert.Equal(t, 3, s.Sheets)
	require.Len(t, s.Sample, 5)
	assert.Equal(t, CityRef{State: "BA", City: "Salvador"}, s.Sample[0])
	assert.Equal(t, []string{"BA", "SP"}, bahia().States())
}

func TestCodesOrderAndDedup(t *testing.T) {
	e := types.CityIndexEntry{
		K250: []types.SheetCode{"SC-24"},
		K100: []types.SheetCode{"SC-24-V", "SC-24"},
		K50:  []types.SheetCode{"SC-24-V-A"},
	}
	assert.Equal(t, []types.ScaledCode{
		{Code: "SC-24", Scale: types.Scale250k},
		{Code: "SC-24-V", Scale: types.Scale100k},
		{Code: "SC-24-V-A", Scale: types.Scale50k},
	}, e.Codes())
}
