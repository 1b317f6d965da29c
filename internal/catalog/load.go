// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sheetfinder/internal/normalize"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// LoadFile reads a catalog from path. The format is chosen by extension:
// .json, .yaml and .yml are decoded by Decode; .db, .sqlite and .sqlite3 by
// LoadSQLite.
func LoadFile(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("opening catalog: %w", err)
		}
		defer f.Close()
		c, err := Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
		}
		return c, nil
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}

// Decode reads a JSON or YAML catalog from r. Two shapes are accepted:
//
//	{"BA": {"Salvador": {"250k": [...], "100k": [...], "50k": [...]}}}
//	[{"uf": "BA", "city_name": "Salvador", "sheets_250k": "SC-24;SD-24"}]
//
// Scale keys and sheet records may use any of the historical spellings
// (see scaleKeys and codeFields); they are resolved here, once. Document
// order is preserved, which is why the YAML node API is used for JSON too.
func Decode(r io.Reader) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil), nil
		}
		return nil, err
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	var entries []types.CityIndexEntry
	switch doc.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(doc.Content); i += 2 {
			state := doc.Content[i].Value
			cities := doc.Content[i+1]
			if cities.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(cities.Content); j += 2 {
				entry := types.CityIndexEntry{State: state, City: cities.Content[j].Value}
				decodeScales(&entry, cities.Content[j+1])
				entries = append(entries, entry)
			}
		}
	case yaml.SequenceNode:
		for _, rec := range doc.Content {
			if rec.Kind != yaml.MappingNode {
				continue
			}
			entry := types.CityIndexEntry{
				State: fieldValue(rec, "uf", "UF", "state", "estado"),
				City:  fieldValue(rec, "city_name", "city", "cidade", "municipio", "município"),
			}
			decodeScales(&entry, rec)
			entries = append(entries, entry)
		}
	default:
		return nil, fmt.Errorf("catalog root must be a mapping of states or a list of cities")
	}
	return New(entries), nil
}

// scaleKeys maps the compacted spellings of scale keys seen in catalog
// exports to their bucket.
var scaleKeys = map[string]types.Scale{
	"250k": types.Scale250k, "k250": types.Scale250k, "sheets250k": types.Scale250k,
	"1250000": types.Scale250k, "250000": types.Scale250k, "250mil": types.Scale250k,
	"100k": types.Scale100k, "k100": types.Scale100k, "sheets100k": types.Scale100k,
	"1100000": types.Scale100k, "100000": types.Scale100k, "100mil": types.Scale100k,
	"50k": types.Scale50k, "k50": types.Scale50k, "sheets50k": types.Scale50k,
	"150000": types.Scale50k, "50000": types.Scale50k, "50mil": types.Scale50k,
}

// ParseScale resolves a scale key or label ("250k", "sheets_100k",
// "1:50.000") to its bucket.
func ParseScale(s string) (types.Scale, bool) {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	scale, ok := scaleKeys[b.String()]
	return scale, ok
}

// codeFields are the record keys that have held the sheet code over time.
var codeFields = []string{"code", "sheet_code", "indNomencl", "codigo", "código"}

func decodeScales(entry *types.CityIndexEntry, payload *yaml.Node) {
	if payload.Kind != yaml.MappingNode {
		return
	}
	for k := 0; k+1 < len(payload.Content); k += 2 {
		scale, ok := ParseScale(payload.Content[k].Value)
		if !ok {
			continue
		}
		codes := decodeCodes(payload.Content[k+1])
		switch scale {
		case types.Scale250k:
			entry.K250 = append(entry.K250, codes...)
		case types.Scale100k:
			entry.K100 = append(entry.K100, codes...)
		case types.Scale50k:
			entry.K50 = append(entry.K50, codes...)
		}
	}
}

func decodeCodes(n *yaml.Node) []types.SheetCode {
	switch n.Kind {
	case yaml.ScalarNode:
		return splitCodes(n.Value)
	case yaml.MappingNode:
		return splitCodes(fieldValue(n, codeFields...))
	case yaml.SequenceNode:
		var out []types.SheetCode
		for _, item := range n.Content {
			out = append(out, decodeCodes(item)...)
		}
		return out
	}
	return nil
}

// splitCodes splits a ";" or "," separated list of codes.
func splitCodes(s string) []types.SheetCode {
	var out []types.SheetCode
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		if code := normalize.CanonicalizeCode(part); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// fieldValue returns the scalar value of the first key of m found in names.
func fieldValue(m *yaml.Node, names ...string) string {
	for _, name := range names {
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == name && m.Content[i+1].Kind == yaml.ScalarNode {
				return strings.TrimSpace(m.Content[i+1].Value)
			}
		}
	}
	return ""
}
