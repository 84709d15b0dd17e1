package rewrite

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/sitemirror/sitemirror/internal/pathmap"
	"github.com/sitemirror/sitemirror/internal/sanitize"
	"github.com/sitemirror/sitemirror/internal/scope"
)

// refAttributes maps element names to the attributes that can hold a URL
// worth rewriting.
var refAttributes = map[string][]string{
	"img":    {"src"},
	"link":   {"href"},
	"script": {"src"},
	"a":      {"href"},
	"video":  {"src", "poster"},
	"audio":  {"src"},
	"source": {"src"},
	"track":  {"src"},
}

// skippedAnchorPrefixes mark anchor values that are not navigable URLs.
var skippedAnchorPrefixes = []string{
	"#",
	"mailto:",
	"tel:",
	"javascript:",
}

// Engine rewrites one page at a time. Safe to reuse across pages; not safe
// for concurrent use because the sanitizer mutates shared document state.
type Engine struct {
	scope      *scope.Scope
	classifier *pathmap.Classifier
	sanitizer  *sanitize.Sanitizer
}

// New creates an Engine bound to a crawl scope. The classifier decides
// which references become download candidates.
func New(s *scope.Scope, c *pathmap.Classifier) *Engine {
	return &Engine{
		scope:      s,
		classifier: c,
		sanitizer:  sanitize.New(),
	}
}

// Rewrite sanitizes the document, rewrites every same-site reference to a
// relative path, and returns the absolute URLs of newly observed assets,
// sorted and deduplicated. The document is mutated in place.
func (e *Engine) Rewrite(root *html.Node, pageURL string) []string {
	e.sanitizer.Apply(root)

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	for n := range root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		attrs, ok := refAttributes[n.Data]
		if !ok {
			continue
		}
		for _, name := range attrs {
			e.rewriteAttribute(n, name, base, pageURL, seen)
		}
	}

	assets := make([]string, 0, len(seen))
	for u := range seen {
		assets = append(assets, u)
	}
	sort.Strings(assets)
	return assets
}

// rewriteAttribute resolves one attribute value and replaces it with its
// relative form when it stays on the mirrored site. Non-anchor references
// are only rewritten when they classify as downloadable assets; anchors are
// always rewritten so internal navigation works offline.
func (e *Engine) rewriteAttribute(n *html.Node, name string, base *url.URL, pageURL string, seen map[string]struct{}) {
	idx := attrIndex(n, name)
	if idx < 0 {
		return
	}

	raw := strings.TrimSpace(n.Attr[idx].Val)
	if raw == "" {
		return
	}
	if n.Data == "a" && hasSkippedAnchorPrefix(raw) {
		return
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return
	}
	absolute := base.ResolveReference(ref).String()
	if !e.scope.Contains(absolute) {
		return
	}

	if n.Data == "a" {
		n.Attr[idx].Val = pathmap.RelativePath(absolute, pageURL)
		return
	}

	if !e.classifier.IsValidAsset(absolute) {
		return
	}
	seen[absolute] = struct{}{}
	n.Attr[idx].Val = pathmap.RelativePath(absolute, pageURL)
}

func attrIndex(n *html.Node, name string) int {
	for i, a := range n.Attr {
		if a.Key == name {
			return i
		}
	}
	return -1
}

func hasSkippedAnchorPrefix(href string) bool {
	for _, p := range skippedAnchorPrefixes {
		if strings.HasPrefix(href, p) {
			return true
		}
	}
	return false
}
