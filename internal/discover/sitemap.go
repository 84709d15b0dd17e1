package discover

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
)

// sitemapCandidates are the conventional sitemap locations probed under the
// root, in order. The first one answering 200 wins; the rest are skipped.
var sitemapCandidates = []string{
	"/sitemap.xml",
	"/wp-sitemap.xml",
	"/sitemap_index.xml",
}

// maxSitemapDepth bounds sitemap-index recursion. Together with the
// fetched-set cycle guard this makes pathological sitemap graphs terminate.
const maxSitemapDepth = 10

// sitemapDocument covers both sitemap flavors. A sitemap-index document
// fills Sitemaps; a URL-set document fills URLs. Unmarshal matches child
// elements by name, so one struct handles either root element.
type sitemapDocument struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
	URLs     []sitemapLoc `xml:"url"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// discoverFromSitemaps probes the candidate locations and walks the first
// sitemap that answers. Missing sitemaps are normal, not an error.
func (d *Discoverer) discoverFromSitemaps(ctx context.Context, found map[string]struct{}) {
	root := strings.TrimSuffix(d.scope.RootURL(), "/")

	for _, candidate := range sitemapCandidates {
		sitemapURL := root + candidate

		body, err := d.fetchSitemap(ctx, sitemapURL)
		if err != nil {
			continue
		}

		d.logger.Info("sitemap found", "url", sitemapURL)
		fetched := map[string]struct{}{sitemapURL: {}}
		d.walkSitemap(ctx, body, fetched, found, 0)
		return
	}

	d.logger.Info("no sitemap found", "root", root)
}

// walkSitemap parses one sitemap document, recursing into child sitemaps of
// an index document and collecting same-domain page URLs from a URL-set
// document. The fetched set guarantees no sitemap URL is retrieved twice.
func (d *Discoverer) walkSitemap(ctx context.Context, body []byte, fetched, found map[string]struct{}, depth int) {
	if depth > maxSitemapDepth {
		d.logger.Warn("sitemap recursion limit reached", "depth", depth)
		return
	}

	doc, err := parseSitemap(body)
	if err != nil {
		d.logger.Warn("sitemap parse failed", "error", err)
		return
	}

	for _, child := range doc.Sitemaps {
		loc := strings.TrimSpace(child.Loc)
		if loc == "" {
			continue
		}
		if _, seen := fetched[loc]; seen {
			continue
		}
		fetched[loc] = struct{}{}

		childBody, err := d.fetchSitemap(ctx, loc)
		if err != nil {
			d.logger.Warn("child sitemap fetch failed", "url", loc, "error", err)
			continue
		}
		d.walkSitemap(ctx, childBody, fetched, found, depth+1)
	}

	for _, entry := range doc.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}
		d.add(loc, found)
	}
}

// fetchSitemap retrieves a sitemap URL and returns its body only on a 200.
func (d *Discoverer) fetchSitemap(ctx context.Context, sitemapURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseSitemap decodes sitemap XML, honoring the document's declared
// charset. Real-world sitemaps are not reliably UTF-8.
func parseSitemap(body []byte) (*sitemapDocument, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel

	var doc sitemapDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
