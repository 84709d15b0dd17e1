package discover

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// skippedHrefPrefixes mark anchors that never name a crawlable page.
var skippedHrefPrefixes = []string{
	"#",
	"mailto:",
	"tel:",
	"javascript:",
}

// discoverFromHomepage renders the root page and records its internal
// links. Only the homepage is scanned; deeper pages are expected to appear
// in the sitemap.
func (d *Discoverer) discoverFromHomepage(ctx context.Context, found map[string]struct{}) {
	rootURL := d.scope.RootURL()

	rendered, err := d.fetcher.Fetch(ctx, rootURL)
	if err != nil {
		d.logger.Warn("homepage link discovery failed", "url", rootURL, "error", err)
		return
	}

	base, err := url.Parse(rootURL)
	if err != nil {
		return
	}

	for _, href := range extractAnchorHrefs(rendered) {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		d.add(base.ResolveReference(ref).String(), found)
	}
}

// extractAnchorHrefs returns every usable a[href] value in document order.
func extractAnchorHrefs(renderedHTML string) []string {
	root, err := html.Parse(strings.NewReader(renderedHTML))
	if err != nil {
		return nil
	}

	var hrefs []string
	for n := range root.Descendants() {
		if n.Type != html.ElementNode || n.Data != "a" {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			href := strings.TrimSpace(attr.Val)
			if href == "" || hasSkippedPrefix(href) {
				break
			}
			hrefs = append(hrefs, href)
			break
		}
	}
	return hrefs
}

func hasSkippedPrefix(href string) bool {
	for _, p := range skippedHrefPrefixes {
		if strings.HasPrefix(href, p) {
			return true
		}
	}
	return false
}
