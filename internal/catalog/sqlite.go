// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

// selectCitySheets reads the seeded catalog in insertion order. Scale holds
// any spelling ParseScale understands ("250k", "1:100000", ...).
const selectCitySheets = `SELECT uf, city, scale, code FROM city_sheets ORDER BY rowid`

// LoadSQLite reads a catalog from a SQLite database built offline. The
// database is opened read-only; the catalog never writes to it.
func LoadSQLite(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	db, err := sql.Open("sqlite3", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(selectCitySheets)
	if err != nil {
		return nil, fmt.Errorf("querying city_sheets: %w", err)
	}
	defer rows.Close()

	type cityKey struct{ state, city string }
	pos := make(map[cityKey]int)
	var entries []types.CityIndexEntry

	for rows.Next() {
		var state, city, scaleRaw, code string
		if err := rows.Scan(&state, &city, &scaleRaw, &code); err != nil {
			return nil, fmt.Errorf("scanning city_sheets row: %w", err)
		}
		k := cityKey{state, city}
		i, ok := pos[k]
		if !ok {
			i = len(entries)
			pos[k] = i
			entries = append(entries, types.CityIndexEntry{State: state, City: city})
		}
		scale, ok := ParseScale(scaleRaw)
		if !ok {
			continue
		}
		c := types.SheetCode(code)
		switch scale {
		case types.Scale250k:
			entries[i].K250 = append(entries[i].K250, c)
		case types.Scale100k:
			entries[i].K100 = append(entries[i].K100, c)
		case types.Scale50k:
			entries[i].K50 = append(entries[i].K50, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading city_sheets: %w", err)
	}
	return New(entries), nil
}

// readOnlyDSN builds a read-only SQLite URI for path. Characters that carry
// meaning in a URI, such as '?' and '#', are percent-encoded.
func readOnlyDSN(path string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
}
