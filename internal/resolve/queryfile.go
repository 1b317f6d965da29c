// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

// QueryFile is the on-disk form of one resolved place. A saved search can
// be printed again later without querying the repository.
type QueryFile struct {
	Query    QueryParams          `yaml:"query"`
	Source   string               `yaml:"source"`
	Response types.SearchResponse `yaml:"response"`
	Summary  QuerySummary         `yaml:"summary"`
}

// QueryParams stores the place that was resolved.
type QueryParams struct {
	City string `yaml:"city"`
	UF   string `yaml:"uf"`
}

// QuerySummary stores result counts and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Documents int       `yaml:"documents"`
	Fallbacks int       `yaml:"fallbacks"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Summarize counts documents and fallback results in resp.
func Summarize(resp types.SearchResponse) QuerySummary {
	s := QuerySummary{Timestamp: time.Now()}
	for _, scale := range types.Scales {
		for _, r := range resp.Groups.Bucket(scale) {
			s.Total++
			if r.Kind == types.KindSearch {
				s.Fallbacks++
			} else {
				s.Documents++
			}
		}
	}
	return s
}

// WriteQueryFile saves resp, resolved against the repository at source, to
// a YAML file.
func WriteQueryFile(path, source string, resp types.SearchResponse) error {
	qf := QueryFile{
		Query:    QueryParams{City: resp.City, UF: resp.State},
		Source:   source,
		Response: resp,
		Summary:  Summarize(resp),
	}
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file. Missing buckets are
// restored as empty lists.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	g := &qf.Response.Groups
	for _, b := range []*[]types.SheetResult{&g.K250, &g.K100, &g.K50, &g.Other} {
		if *b == nil {
			*b = []types.SheetResult{}
		}
	}
	return &qf, nil
}
