// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rigeo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/sheetfinder/internal/metrics"
	"github.com/pdiddy/sheetfinder/internal/normalize"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// UntitledPlaceholder is the title of a detail page with no heading or
// <title>.
const UntitledPlaceholder = "Documento sem título"

// yearMetaNames are the meta tags consulted for the publication year, in
// order of preference.
var yearMetaNames = []string{
	"citation_date",
	"citation_publication_date",
	"DC.date.issued",
	"DCTERMS.issued",
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ParseDetail fetches one detail page and extracts its title, year, scale
// and classified download links. code is recorded on the result as-is. A
// page with no title and no links is not an error: the result carries the
// placeholder title and the collection page.
func (c *Client) ParseDetail(ctx context.Context, rawURL string, code types.SheetCode) (types.SheetResult, error) {
	p, err := c.fetch(ctx, metrics.OpDetail, rawURL)
	if err != nil {
		return types.SheetResult{}, fmt.Errorf("fetching detail page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return types.SheetResult{}, fmt.Errorf("parsing detail page %s: %w", rawURL, err)
	}

	title := pageTitle(doc)
	body := collapse(doc.Find("body").Text())

	r := types.SheetResult{
		Code:  code,
		Title: title,
		Year:  pageYear(doc, body),
		Scale: DetectScale(title),
		Kind:  types.KindDocument,
		Links: extractLinks(doc, pageBase(doc, p.URL)),
	}
	if r.Scale == types.ScaleOther {
		r.Scale = DetectScale(body)
	}
	if title == "" {
		r.Title = UntitledPlaceholder
		if r.Links.IsEmpty() {
			c.log().Debug("detail page has no title and no links", zap.String("url", rawURL))
		}
	}
	r.Links.CollectionPage = collectionPage(doc, p.URL)
	return r, nil
}

// pageTitle returns the first non-empty heading, else <title>, else "".
func pageTitle(doc *goquery.Document) string {
	var title string
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		title = collapse(h.Text())
		return title == ""
	})
	if title == "" {
		title = collapse(doc.Find("title").First().Text())
	}
	return title
}

func pageYear(doc *goquery.Document, body string) string {
	for _, name := range yearMetaNames {
		content, ok := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
		if !ok {
			continue
		}
		if y := yearPattern.FindString(content); y != "" {
			return y
		}
	}
	return yearPattern.FindString(body)
}

// collectionPage returns the canonical link of the page, or pageURL without
// query and fragment.
func collectionPage(doc *goquery.Document, pageURL *url.URL) string {
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if u, err := pageURL.Parse(strings.TrimSpace(href)); err == nil {
			return stripURL(u).String()
		}
	}
	u := *pageURL
	return stripURL(&u).String()
}

var (
	archiveExts = map[string]bool{
		".zip": true, ".rar": true, ".7z": true, ".gz": true, ".tgz": true,
		".tar": true, ".kmz": true, ".kml": true, ".shp": true, ".gdb": true,
	}
	documentExts = map[string]bool{
		".pdf": true, ".doc": true, ".docx": true, ".jpg": true, ".jpeg": true,
		".png": true, ".tif": true, ".tiff": true, ".txt": true,
	}

	gisKeywords     = []string{"sig", "gis", "shape", "shp", "vetor", "arcgis", "geodatabase"}
	reportKeywords  = []string{"relatorio", "report", "explicativ", "texto"}
	mineralKeywords = []string{"recursos", "mineral", "recmin", "ocorrencia"}
)

// extractLinks classifies every binary-asset anchor into a LinkSet. The
// first URL assigned to a category wins.
func extractLinks(doc *goquery.Document, base *url.URL) types.LinkSet {
	var links types.LinkSet
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, err := base.Parse(strings.TrimSpace(href))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		ext := strings.ToLower(path.Ext(u.Path))
		if !strings.Contains(u.Path, "/bitstream/") && !strings.Contains(u.Path, "/retrieve/") &&
			!archiveExts[ext] && !documentExts[ext] {
			return
		}
		if housekeeping(path.Base(u.Path)) {
			return
		}

		target := classify(ext, tokens(a.Text()+" "+path.Base(u.Path)))
		setOnce(target(&links), u.String())
	})
	return links
}

// housekeeping reports whether name is a bitstream DSpace attaches to every
// item: the deposit license, its RDF form, and derived thumbnails or text
// extracts such as "mapa.pdf.jpg" and "mapa.pdf.txt".
func housekeeping(name string) bool {
	name = strings.ToLower(name)
	if name == "license.txt" || strings.HasPrefix(name, "license_rdf") {
		return true
	}
	switch ext := path.Ext(name); ext {
	case ".jpg", ".png", ".txt":
		inner := path.Ext(strings.TrimSuffix(name, ext))
		return documentExts[inner] || archiveExts[inner]
	}
	return false
}

// classify picks the LinkSet field for an asset from its extension and the
// words of its anchor text and file name. GIS words only route assets that
// are not documents; a "Relatório do SIG" PDF is a report.
func classify(ext string, words []string) func(*types.LinkSet) *string {
	switch {
	case archiveExts[ext] || (!documentExts[ext] && hasKeyword(words, gisKeywords)):
		return func(l *types.LinkSet) *string { return &l.GISArchive }
	case hasKeyword(words, reportKeywords):
		return func(l *types.LinkSet) *string { return &l.Report }
	case hasKeyword(words, mineralKeywords):
		return func(l *types.LinkSet) *string { return &l.MineralResources }
	default:
		// Geological maps and unlabelled documents.
		return func(l *types.LinkSet) *string { return &l.Geology }
	}
}

func setOnce(field *string, v string) {
	if *field == "" {
		*field = v
	}
}

// tokens splits s into lowercase, accent-free alphanumeric words.
func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(normalize.Fold(s)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// hasKeyword matches short keywords as whole words and longer ones as word
// prefixes ("geolog" matches "geologico").
func hasKeyword(words, keywords []string) bool {
	for _, w := range words {
		for _, k := range keywords {
			if w == k || (len(k) > 3 && strings.HasPrefix(w, k)) {
				return true
			}
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
