// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a (city, state) pair into a scale-partitioned set of
// map-sheet results: catalog codes are searched in the document repository,
// candidate detail pages are parsed under a shared worker limit, and every
// code that yields nothing gets a fallback search link.
package resolve

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/sheetfinder/internal/catalog"
	"github.com/pdiddy/sheetfinder/internal/metrics"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// Searcher finds candidate detail pages for one code in a place.
// rigeo.Client implements it.
type Searcher interface {
	// FindCandidates returns detail-page URLs; an empty list means nothing
	// usable was found, including on remote failure.
	FindCandidates(ctx context.Context, city, state string, code types.SheetCode) []string

	// FallbackURL returns a search URL a user can open instead.
	FallbackURL(city, state string, code types.SheetCode) string
}

// DetailParser turns one detail page into a result. rigeo.Client
// implements it.
type DetailParser interface {
	ParseDetail(ctx context.Context, url string, code types.SheetCode) (types.SheetResult, error)
}

// Resolver owns the loaded catalog and the repository collaborators. It is
// safe for concurrent use.
type Resolver struct {
	catalog *catalog.Catalog
	search  Searcher
	detail  DetailParser
	cfg     types.ResolveConfig
	logger  *zap.Logger
}

// New returns a resolver. A nil catalog behaves as an empty one; a nil
// logger discards output.
func New(cat *catalog.Catalog, search Searcher, detail DetailParser, cfg types.ResolveConfig, logger *zap.Logger) *Resolver {
	cfg.ApplyDefaults()
	if cat == nil {
		cat = catalog.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{catalog: cat, search: search, detail: detail, cfg: cfg, logger: logger}
}

// Catalog returns the catalog the resolver was built with.
func (r *Resolver) Catalog() *catalog.Catalog { return r.catalog }

// unit is one code to resolve, or the bare place when code is empty.
type unit struct {
	code  types.SheetCode
	scale types.Scale
}

// Resolve looks the place up in the catalog and resolves each of its codes
// against the repository. Only invalid input and cancellation of ctx are
// returned as errors; remote failures degrade to fallback results. When the
// configured deadline elapses, codes still pending get a fallback result.
func (r *Resolver) Resolve(ctx context.Context, city, state string) (types.SearchResponse, error) {
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	if err := validate(city, state); err != nil {
		return types.SearchResponse{}, err
	}

	start := time.Now()
	defer func() { metrics.ResolveDuration.Observe(time.Since(start).Seconds()) }()

	resp := types.SearchResponse{City: city, State: state, Groups: types.NewGroups()}
	match := r.catalog.Lookup(state, city)
	var units []unit
	if match.Exact != nil {
		resp.City = match.Exact.City
		for _, sc := range match.Exact.Codes() {
			units = append(units, unit{code: sc.Code, scale: sc.Scale})
		}
	} else {
		resp.Suggestions = match.Suggestions
	}
	if len(units) == 0 {
		units = []unit{{scale: types.ScaleOther}}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Deadline)
	defer cancel()

	c := &call{
		r:     r,
		city:  resp.City,
		state: state,
		sem:   semaphore.NewWeighted(int64(r.cfg.Workers)),
		out:   &outcomes{results: make([][]types.SheetResult, len(units))},
	}

	var g errgroup.Group
	for i, u := range units {
		g.Go(func() error {
			c.out.set(i, c.resolveUnit(runCtx, u))
			return nil
		})
	}
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
	}
	if err := ctx.Err(); err != nil {
		return types.SearchResponse{}, err
	}

	finished := c.out.close()
	expired := 0
	for i, u := range units {
		if finished[i] == nil {
			finished[i] = []types.SheetResult{c.fallback(u)}
			expired++
		}
		if finished[i][0].Kind == types.KindSearch {
			metrics.ResolveUnitsTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		} else {
			metrics.ResolveUnitsTotal.WithLabelValues(metrics.OutcomeParsed).Inc()
		}
	}
	if expired > 0 {
		r.logger.Warn("resolve deadline elapsed",
			zap.String("city", resp.City), zap.String("state", state),
			zap.Int("pending", expired), zap.Duration("deadline", r.cfg.Deadline))
	}

	for _, res := range merge(finished) {
		resp.Groups.Add(res)
	}

	r.logger.Info("resolved place",
		zap.String("city", resp.City),
		zap.String("state", state),
		zap.Bool("catalog_hit", match.Exact != nil),
		zap.Int("codes", len(units)),
		zap.Int("results", resp.Groups.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

func validate(city, state string) error {
	if city == "" {
		return &ValidationError{Field: "city", Message: "is required"}
	}
	if state == "" {
		return &ValidationError{Field: "state", Message: "is required"}
	}
	if len(state) != 2 || !isLetter(state[0]) || !isLetter(state[1]) {
		return &ValidationError{Field: "state", Message: "must be a two-letter code, got " + state}
	}
	return nil
}

func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }

// outcomes records finished units. Writes after close are dropped.
type outcomes struct {
	mu      sync.Mutex
	closed  bool
	results [][]types.SheetResult
}

func (o *outcomes) set(i int, rs []types.SheetResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.results[i] = rs
	}
}

func (o *outcomes) close() [][]types.SheetResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return o.results
}
