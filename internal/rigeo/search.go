// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rigeo

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/sheetfinder/internal/httputil"
	"github.com/pdiddy/sheetfinder/internal/metrics"
	"github.com/pdiddy/sheetfinder/internal/normalize"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// searchPath is the DSpace free-text search endpoint.
const searchPath = "/simple-search"

// BuildQuery assembles the free-text query for one unit: the quoted code
// spellings joined with OR, then city, state and keywords. An empty code
// yields a place-only query.
func BuildQuery(city, state string, code types.SheetCode, keywords []string) string {
	var parts []string
	if vs := normalize.Variants(code).All(); len(vs) > 0 {
		quoted := make([]string, len(vs))
		for i, v := range vs {
			quoted[i] = `"` + v + `"`
		}
		parts = append(parts, "("+strings.Join(quoted, " OR ")+")")
	}
	for _, p := range []string{city, state} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}

// SearchURL returns the human-facing search URL for query, first page.
func (c *Client) SearchURL(query string) string {
	return c.searchPageURL(query, 0)
}

// FallbackURL returns the search URL offered when no detail page was found
// for code in the given place.
func (c *Client) FallbackURL(city, state string, code types.SheetCode) string {
	return c.SearchURL(BuildQuery(city, state, code, c.Config.Keywords))
}

func (c *Client) searchPageURL(query string, start int) string {
	v := url.Values{}
	v.Set("query", query)
	v.Set("sort_by", "score")
	v.Set("order", "desc")
	v.Set("rpp", strconv.Itoa(c.Config.PageSize))
	v.Set("etal", "0")
	v.Set("start", strconv.Itoa(start))
	return strings.TrimRight(c.Config.BaseURL, "/") + searchPath + "?" + v.Encode()
}

// FindCandidates searches the repository for detail pages about code in the
// given place. Candidates whose result entry mentions the code (or, without
// a code, the city) come first; a few non-matching entries are kept as a
// fallback pool. At most MaxPages requests are made. Remote failures yield
// an empty list.
func (c *Client) FindCandidates(ctx context.Context, city, state string, code types.SheetCode) []string {
	query := BuildQuery(city, state, code, c.Config.Keywords)
	sel := newSelection(c.Config.MaxCandidates, c.Config.FallbackPool, matcherFor(city, code))

	for page := 0; page < c.Config.MaxPages; page++ {
		p, err := c.fetch(ctx, metrics.OpSearch, c.searchPageURL(query, page*c.Config.PageSize))
		if err != nil {
			break
		}
		found, err := sel.scan(p)
		if err != nil {
			c.log().Warn("parsing search results", zap.String("url", p.URL.String()), zap.Error(err))
			break
		}
		if found < c.Config.PageSize || sel.complete() {
			break
		}
	}

	out := sel.result()
	c.log().Debug("search candidates",
		zap.String("query", query), zap.Int("candidates", len(out)))
	return out
}

// matcherFor reports whether a block of result text is about the unit.
func matcherFor(city string, code types.SheetCode) func(text string) bool {
	variants := normalize.Variants(code).All()
	if len(variants) > 0 {
		return func(text string) bool {
			upper := strings.ToUpper(normalize.Fold(text))
			for _, v := range variants {
				if containsCode(upper, v) {
					return true
				}
			}
			return false
		}
	}
	key := normalize.Key(city)
	return func(text string) bool {
		return key != "" && strings.Contains(normalize.Key(text), key)
	}
}

// containsCode reports whether code occurs in text as a whole code: not
// inside a longer token ("SC-245") and not as the prefix of a finer sheet
// ("SC-24-V-A").
func containsCode(text, code string) bool {
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], code)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(code)
		if (start == 0 || !isAlnum(text[start-1])) && codeEnds(text, end) {
			return true
		}
		i = start + 1
	}
	return false
}

func codeEnds(text string, end int) bool {
	if end == len(text) {
		return true
	}
	switch c := text[end]; {
	case isAlnum(c):
		return false
	case c == '-' || c == '.':
		return end+1 == len(text) || !isAlnum(text[end+1])
	}
	return true
}

func isAlnum(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// selection accumulates detail-page candidates across result pages.
type selection struct {
	limit    int
	pool     int
	matches  func(string) bool
	seen     map[string]bool
	matching []string
	others   []string
}

func newSelection(limit, pool int, matches func(string) bool) *selection {
	return &selection{limit: limit, pool: pool, matches: matches, seen: make(map[string]bool)}
}

// minTitleLen is the shortest anchor text accepted for a candidate whose
// row does not match the unit; shorter ones are navigation ("Ver", "Itens").
const minTitleLen = 6

// scan collects the /handle/ anchors of one result page and returns how many
// distinct new candidates it held. When the page has a results table only
// its anchors are considered, which leaves out breadcrumbs and the sidebar.
func (s *selection) scan(p *httputil.Page) (int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return 0, err
	}
	base := pageBase(doc, p.URL)

	anchors := doc.Find(`table a[href*="/handle/"]`)
	if anchors.Length() == 0 {
		anchors = doc.Find("a[href]")
	}

	found := 0
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, err := base.Parse(strings.TrimSpace(href))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		if !strings.Contains(u.Path, "/handle/") {
			return
		}
		link := stripURL(u).String()
		if s.seen[link] {
			return
		}
		matching := s.matches(a.Text()) || s.matches(a.Closest("tr, li, div, p").Text())
		if !matching && utf8.RuneCountInString(collapse(a.Text())) < minTitleLen {
			return
		}
		s.seen[link] = true
		found++

		if matching {
			s.matching = append(s.matching, link)
		} else {
			s.others = append(s.others, link)
		}
	})
	return found, nil
}

// complete reports whether further pages cannot change the result.
func (s *selection) complete() bool {
	return len(s.matching) >= s.limit
}

func (s *selection) result() []string {
	out := make([]string, 0, max(s.limit, 0))
	for _, m := range s.matching {
		if len(out) == s.limit {
			return out
		}
		out = append(out, m)
	}
	for i, o := range s.others {
		if i == s.pool || len(out) == s.limit {
			break
		}
		out = append(out, o)
	}
	return out
}

// pageBase returns the <base href> of doc resolved against pageURL, or
// pageURL itself.
func pageBase(doc *goquery.Document, pageURL *url.URL) *url.URL {
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := pageURL.Parse(strings.TrimSpace(href)); err == nil {
			return u
		}
	}
	return pageURL
}
