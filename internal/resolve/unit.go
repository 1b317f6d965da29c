// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

// FallbackTitle labels a result that only carries a search link.
const FallbackTitle = "Busca geral"

// call holds the state shared by the units of one Resolve call.
type call struct {
	r      *Resolver
	city   string
	state  string
	sem    *semaphore.Weighted
	flight singleflight.Group
	out    *outcomes
}

// resolveUnit searches one code and parses its candidates. It always
// returns at least one result.
func (c *call) resolveUnit(ctx context.Context, u unit) []types.SheetResult {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return []types.SheetResult{c.fallback(u)}
	}
	candidates := c.r.search.FindCandidates(ctx, c.city, c.state, u.code)
	c.sem.Release(1)

	if len(candidates) == 0 {
		return []types.SheetResult{c.fallback(u)}
	}

	parsed := make([]*types.SheetResult, len(candidates))
	var g errgroup.Group
	for i, link := range candidates {
		g.Go(func() error {
			res, err := c.parse(ctx, link, u.code)
			if err != nil {
				c.r.logger.Debug("dropping candidate",
					zap.String("url", link), zap.String("code", string(u.code)), zap.Error(err))
				return nil
			}
			res.Code = u.code
			if res.Scale == "" || res.Scale == types.ScaleOther {
				res.Scale = u.scale
			}
			if res.Scale == "" {
				res.Scale = types.ScaleOther
			}
			parsed[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	var out []types.SheetResult
	for _, p := range parsed {
		if p != nil {
			out = append(out, *p)
		}
	}
	if len(out) == 0 {
		return []types.SheetResult{c.fallback(u)}
	}
	return out
}

// parse fetches one detail page under the worker limit. Concurrent requests
// for the same page share one fetch.
func (c *call) parse(ctx context.Context, link string, code types.SheetCode) (types.SheetResult, error) {
	v, err, _ := c.flight.Do(link, func() (any, error) {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer c.sem.Release(1)
		return c.r.detail.ParseDetail(ctx, link, code)
	})
	if err != nil {
		return types.SheetResult{}, err
	}
	return v.(types.SheetResult), nil
}

// fallback synthesizes the search-link result for a unit.
func (c *call) fallback(u unit) types.SheetResult {
	title := FallbackTitle
	if u.code != "" {
		title += ": " + string(u.code)
	}
	scale := u.scale
	if scale == "" {
		scale = types.ScaleOther
	}
	return types.SheetResult{
		Code:              u.code,
		Title:             title,
		Scale:             scale,
		Kind:              types.KindSearch,
		FallbackSearchURL: c.r.search.FallbackURL(c.city, c.state, u.code),
	}
}
