// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rigeo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sheetfinder/pkg/types"
)

// resultRow renders one DSpace result table row.
func resultRow(handle, title string) string {
	return fmt.Sprintf(`<tr><td headers="t1">2012</td><td headers="t2"><a href="/handle/doc/%s">%s</a></td></tr>`, handle, title)
}

func resultsPage(rows ...string) string {
	return `<html><body>
<div id="sidebar"><a href="/handle/doc/community">Comunidade</a><a href="/browse?type=title">Títulos</a></div>
<table class="table">` + strings.Join(rows, "\n") + `</table></body></html>`
}

func newTestClient(t *testing.T, srv *httptest.Server, cfg types.RemoteConfig) *Client {
	t.Helper()
	cfg.BaseURL = srv.URL
	return NewClient(cfg, nil)
}

func TestBuildQuery(t *testing.T) {
	got := BuildQuery("Salvador", "BA", "SC-24-V-A", []string{"geologia"})
	assert.Equal(t, `("SC-24-V-A" OR "SC.24.V.A" OR "SC 24 V A" OR "SC.24-V-A") Salvador BA geologia`, got)

	assert.Equal(t, "Salvador BA geologia", BuildQuery(" Salvador ", "BA", "", []string{"geologia", " "}))
}

func TestSearchURL(t *testing.T) {
	c := NewClient(types.RemoteConfig{BaseURL: "https://rigeo.example.org/"}, nil)
	u, err := url.Parse(c.SearchURL("Salvador BA"))
	require.NoError(t, err)

	assert.Equal(t, "rigeo.example.org", u.Host)
	assert.Equal(t, "/simple-search", u.Path)
	q := u.Query()
	assert.Equal(t, "Salvador BA", q.Get("query"))
	assert.Equal(t, "score", q.Get("sort_by"))
	assert.Equal(t, "desc", q.Get("order"))
	assert.Equal(t, "100", q.Get("rpp"))
	assert.Equal(t, "0", q.Get("etal"))
	assert.Equal(t, "0", q.Get("start"))
}

func TestFallbackURL(t *testing.T) {
	c := NewClient(types.RemoteConfig{BaseURL: "https://rigeo.example.org"}, nil)
	u, err := url.Parse(c.FallbackURL("Salvador", "BA", "SC-24"))
	require.NoError(t, err)
	assert.Equal(t, `("SC-24" OR "SC.24" OR "SC 24") Salvador BA geologia`, u.Query().Get("query"))
}

func TestFindCandidatesMatchingFirst(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/simple-search", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("query"), `"SC.24-V-A"`)
		fmt.Fprint(w, resultsPage(
			resultRow("n1", "Projeto Recôncavo"),
			resultRow("m1", "Folha Salvador SC.24-V-A"),
			resultRow("n2", "Mapa do Brasil"),
			resultRow("m1?mode=full", "Folha Salvador SC.24-V-A (duplicate)"),
			resultRow("n3", "Atlas"),
			resultRow("n4", "Outro"),
			`<tr><td>Folha SC 24 V A</td><td><a href="/handle/doc/m2#top">ver</a></td></tr>`,
			resultRow("n5", "Mais um"),
		))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.RemoteConfig{})
	got := c.FindCandidates(t.Context(), "Salvador", "BA", "SC-24-V-A")

	assert.Equal(t, []string{
		srv.URL + "/handle/doc/m1",
		srv.URL + "/handle/doc/m2",
		srv.URL + "/handle/doc/n1",
		srv.URL + "/handle/doc/n2",
		srv.URL + "/handle/doc/n3",
	}, got)
	assert.Equal(t, int32(1), requests.Load(), "a short first page must not trigger a second request")
}

func TestFindCandidatesCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rows []string
		for i := range 9 {
			rows = append(rows, resultRow(fmt.Sprintf("m%d", i), "Folha SC-24-V-A"))
		}
		fmt.Fprint(w, resultsPage(rows...))
	}))
	defer srv.Close()

	got := newTestClient(t, srv, types.RemoteConfig{}).FindCandidates(t.Context(), "Salvador", "BA", "SC-24-V-A")
	require.Len(t, got, types.DefaultMaxCandidates)
	assert.Equal(t, srv.URL+"/handle/doc/m0", got[0])
}

func TestFindCandidatesAtMostTwoPages(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		assert.Equal(t, "3", r.URL.Query().Get("rpp"))
		fmt.Fprint(w, `<ul>`)
		for i := range 3 {
			fmt.Fprintf(w, `<li><a href="/handle/doc/x%d">Folha SC-24-V-A</a></li>`, start+i)
		}
		fmt.Fprint(w, `</ul>`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.RemoteConfig{PageSize: 3, MaxCandidates: 10, FallbackPool: 3})
	got := c.FindCandidates(t.Context(), "Salvador", "BA", "SC-24-V-A")

	assert.Equal(t, int32(2), requests.Load())
	assert.Len(t, got, 6)
	assert.Equal(t, srv.URL+"/handle/doc/x5", got[5])
}

func TestFindCandidatesStopsWhenSelectionComplete(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		for i := range 2 {
			fmt.Fprintf(w, `<p><a href="/handle/doc/y%d">SC.24-V-A</a></p>`, i)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.RemoteConfig{PageSize: 2, MaxCandidates: 2, FallbackPool: 1})
	got := c.FindCandidates(t.Context(), "Salvador", "BA", "SC-24-V-A")

	assert.Len(t, got, 2)
	assert.Equal(t, int32(1), requests.Load())
}

func TestFindCandidatesSecondPageFailureKeepsFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "0" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `<p><a href="/handle/doc/a">SC-24-V-A</a></p><p><a href="/handle/doc/b">SC-24-V-A</a></p>`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.RemoteConfig{PageSize: 2})
	got := c.FindCandidates(t.Context(), "Salvador", "BA", "SC-24-V-A")
	assert.Equal(t, []string{srv.URL + "/handle/doc/a", srv.URL + "/handle/doc/b"}, got)
}

func TestFindCandidatesRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got := newTestClient(t, srv, types.RemoteConfig{}).FindCandidates(t.Context(), "Salvador", "BA", "SC-24-V-A")
	assert.Empty(t, got)
}

func TestFindCandidatesPlaceOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "São Félix BA geologia", r.URL.Query().Get("query"))
		fmt.Fprint(w, resultsPage(
			resultRow("other", "Folha Cruz das Almas"),
			resultRow("hit", "Geologia de SAO FELIX"),
		))
	}))
	defer srv.Close()

	got := newTestClient(t, srv, types.RemoteConfig{FallbackPool: -1}).FindCandidates(t.Context(), "São Félix", "BA", "")
	assert.Equal(t, []string{srv.URL + "/handle/doc/hit"}, got)
}

func TestFindCandidatesIgnoresNavigation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<ul class="breadcrumb"><li><a href="/handle/doc/1">Serviço Geológico do Brasil</a></li>
<li><a href="/handle/doc/2">Cartas geológicas</a></li></ul>
<table class="table">`+resultRow("col", "Itens")+resultRow("r1", "Projeto Recôncavo")+`</table>
</body></html>`)
	}))
	defer srv.Close()

	got := newTestClient(t, srv, types.RemoteConfig{}).FindCandidates(t.Context(), "Salvador", "BA", "SC-24-V-A")
	assert.Equal(t, []string{srv.URL + "/handle/doc/r1"}, got)
}

func TestMatcherForCodeBoundaries(t *testing.T) {
	matches := matcherFor("Salvador", "SC-24")
	tests := []struct {
		text string
		want bool
	}{
		{"Folha SC-24 Salvador", true},
		{"Folha SC.24, escala 1:250.000", true},
		{"Carta sc 24", true},
		{"(SC-24)", true},
		{"Folha SC-24-V-A", false},
		{"Folha SC.24.V.A", false},
		{"Folha SC-245", false},
		{"XSC-24", false},
		{"Folha SC-24-V-A e SC-24.", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(tt.text))
		})
	}
}
