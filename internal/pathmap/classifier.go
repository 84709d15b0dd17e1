package pathmap

import (
	"net/url"
	"path"
	"strings"
)

// assetExtensions lists path extensions that mark a URL as a downloadable
// asset. Anything without an extension is assumed to be a page reference and
// is left to page discovery rather than downloaded as a binary.
//
// Design decision: This is a data-driven table rather than logic spread
// through the rewrite code so that the resolver, classifier, and tests all
// share one definition of "asset".
var assetExtensions = map[string]bool{
	// Images
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".svg": true, ".ico": true, ".webp": true, ".avif": true, ".bmp": true,
	// Fonts
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	// Stylesheets and scripts
	".css": true, ".js": true, ".mjs": true,
	// Media
	".mp4": true, ".webm": true, ".ogv": true,
	".mp3": true, ".wav": true, ".ogg": true, ".m4a": true,
	// Documents and data
	".pdf": true, ".xml": true, ".json": true, ".txt": true,
	// Archives
	".zip": true, ".gz": true, ".tar": true, ".rar": true, ".7z": true,
}

// excludedPathPrefixes lists dynamic endpoints that are not safely
// mirrorable as static files. URLs under these paths are neither pages nor
// assets.
var excludedPathPrefixes = []string{
	"/wp-admin",
	"/wp-login",
	"/wp-json",
	"/xmlrpc.php",
	"/admin",
	"/api",
	"/feed",
	"/login",
	"/logout",
	"/cart",
	"/checkout",
}

// SiteScope is the subset of the crawl scope the classifier needs.
// Satisfied by *scope.Scope.
type SiteScope interface {
	Contains(rawURL string) bool
}

// Classifier decides whether a URL is a downloadable asset.
// A URL already known to be a page is never an asset: page paths and asset
// paths share one filesystem namespace, and a URL cannot occupy both roles.
type Classifier struct {
	// scope filters out cross-origin URLs.
	scope SiteScope

	// isKnownPage reports whether a normalized URL is in the discovered
	// page set. May be nil when no page set exists yet (CSS post-processing
	// uses the full set; unit tests often pass nil).
	isKnownPage func(normalizedURL string) bool
}

// NewClassifier creates a Classifier bound to a crawl scope and a page-set
// membership check.
func NewClassifier(s SiteScope, isKnownPage func(string) bool) *Classifier {
	return &Classifier{scope: s, isKnownPage: isKnownPage}
}

// IsValidAsset reports whether the absolute URL should be registered for
// verbatim download. It rejects cross-origin URLs, URLs already discovered
// as pages, excluded dynamic endpoints, any URL carrying a query string
// (query strings signal dynamic content), and URLs without a recognized
// asset extension.
func (c *Classifier) IsValidAsset(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if c.scope != nil && !c.scope.Contains(rawURL) {
		return false
	}
	if u.RawQuery != "" {
		return false
	}
	if IsExcludedEndpoint(u.Path) {
		return false
	}
	if c.isKnownPage != nil && c.isKnownPage(rawURL) {
		return false
	}
	return HasAssetExtension(u.Path)
}

// IsPageCandidate reports whether the URL looks like a page reference:
// in scope, not a dynamic endpoint, no query string, and either no extension
// or an HTML one.
func (c *Classifier) IsPageCandidate(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if c.scope != nil && !c.scope.Contains(rawURL) {
		return false
	}
	if u.RawQuery != "" {
		return false
	}
	if IsExcludedEndpoint(u.Path) {
		return false
	}
	if HasAssetExtension(u.Path) {
		return false
	}
	return true
}

// HasAssetExtension reports whether the path ends in a recognized asset
// extension.
func HasAssetExtension(p string) bool {
	return assetExtensions[strings.ToLower(path.Ext(p))]
}

// IsExcludedEndpoint reports whether the path falls under a dynamic
// endpoint that must not be mirrored.
func IsExcludedEndpoint(p string) bool {
	if p == "" {
		return false
	}
	lower := strings.ToLower(p)
	if !strings.HasPrefix(lower, "/") {
		lower = "/" + lower
	}
	for _, prefix := range excludedPathPrefixes {
		if lower == prefix || strings.HasPrefix(lower, prefix+"/") || strings.HasPrefix(lower, prefix+"?") {
			return true
		}
	}
	return false
}
