package pathmap

import (
	"net/url"
	"path"
	"strings"
)

// RelativePath converts an absolute target URL plus the URL of the page
// referencing it into the relative href embedded in the rewritten HTML.
//
// The referencing page's directory depth determines the "../" prefix:
// the root page lives at depth 0, "/about/" at depth 1, "/a/b/" at depth 2.
// A page without a trailing slash and without a page extension is stored as
// <path>/index.html, so it lives at the same depth as its segment count.
//
// This is a pure function: no I/O, and identical inputs always produce
// identical output regardless of rewrite order.
func RelativePath(targetURL, referencingPageURL string) string {
	prefix := relativePrefix(Depth(referencingPageURL))

	target, err := url.Parse(targetURL)
	if err != nil {
		return targetURL
	}

	p := strings.TrimPrefix(target.Path, "/")
	switch {
	case p == "":
		return prefix + "index.html"
	case strings.HasSuffix(p, "/"):
		return prefix + p + "index.html"
	case HasAssetExtension(p) || hasPageExtension(p):
		// Concrete files keep their path verbatim.
		return prefix + p
	default:
		// A page-like path without trailing slash is materialized as a
		// directory containing index.html.
		return prefix + p + "/index.html"
	}
}

// Depth returns the directory depth of a page URL in the output tree.
// Root or "/" is depth 0. A path ending in "/" contributes one level per
// segment. A page file (".html"/".htm") lives in its parent directory.
// Any other path is treated as living one level deeper, since it will be
// stored as <path>/index.html.
func Depth(pageURL string) int {
	u, err := url.Parse(pageURL)
	if err != nil {
		return 0
	}

	p := strings.Trim(u.Path, "/")
	if p == "" {
		return 0
	}

	segments := len(strings.Split(p, "/"))
	if hasPageExtension(p) {
		return segments - 1
	}
	return segments
}

// PageOutputPath maps a page URL to its HTML file path relative to the
// output root: root becomes "index.html", a path ending in "/" becomes
// "<path>/index.html", a path with a page extension is kept as-is, and
// anything else is treated as a directory, "<path>/index.html".
func PageOutputPath(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "index.html"
	}

	p := strings.Trim(u.Path, "/")
	switch {
	case p == "":
		return "index.html"
	case hasPageExtension(p):
		return p
	default:
		return path.Join(p, "index.html")
	}
}

// relativePrefix builds the "../" chain for a given page depth.
// Depth 0 yields "./" so hrefs are explicitly relative.
func relativePrefix(depth int) string {
	if depth <= 0 {
		return "./"
	}
	return strings.Repeat("../", depth)
}

// hasPageExtension reports whether a path names a concrete HTML file.
func hasPageExtension(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}
