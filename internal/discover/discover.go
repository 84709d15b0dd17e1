package discover

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sitemirror/sitemirror/internal/fetch"
	"github.com/sitemirror/sitemirror/internal/pathmap"
	"github.com/sitemirror/sitemirror/internal/scope"
)

// sitemapRequestTimeout bounds a single sitemap GET.
const sitemapRequestTimeout = 10 * time.Second

// Discoverer collects the page URL set for one crawl scope.
type Discoverer struct {
	scope      *scope.Scope
	fetcher    fetch.Fetcher
	classifier *pathmap.Classifier
	client     *http.Client
	logger     *slog.Logger

	// excludePatterns are extra path substrings to skip, on top of the
	// built-in dynamic-endpoint exclusions.
	excludePatterns []string
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithHTTPClient replaces the client used for sitemap requests.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Discoverer) {
		d.client = c
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Discoverer) {
		d.logger = l
	}
}

// WithExcludePatterns skips URLs whose path contains any of the given
// substrings. Used for per-site exclusions from the config file.
func WithExcludePatterns(patterns []string) Option {
	return func(d *Discoverer) {
		d.excludePatterns = patterns
	}
}

// New creates a Discoverer. The fetcher renders the homepage for link
// extraction; sitemaps are plain HTTP and never need a browser.
func New(s *scope.Scope, f fetch.Fetcher, opts ...Option) *Discoverer {
	d := &Discoverer{
		scope:      s,
		fetcher:    f,
		classifier: pathmap.NewClassifier(s, nil),
		client:     &http.Client{Timeout: sitemapRequestTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover returns the sorted, normalized set of page URLs: the root, every
// same-domain sitemap entry, and every internal link on the rendered
// homepage. Both phases are best effort; a site with no sitemap and an
// unreachable homepage still yields the root URL.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	found := map[string]struct{}{
		d.scope.RootURL(): {},
	}

	d.discoverFromSitemaps(ctx, found)
	d.discoverFromHomepage(ctx, found)

	urls := make([]string, 0, len(found))
	for u := range found {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

// add normalizes the URL and records it when it passes the page filter.
func (d *Discoverer) add(rawURL string, found map[string]struct{}) {
	normalized := scope.Normalize(rawURL)
	if !d.classifier.IsPageCandidate(normalized) {
		return
	}
	if d.isExcluded(normalized) {
		return
	}
	if _, ok := found[normalized]; ok {
		return
	}
	found[normalized] = struct{}{}
}

// isExcluded reports whether the URL matches a configured exclude pattern.
// The root URL is never excluded.
func (d *Discoverer) isExcluded(normalizedURL string) bool {
	if normalizedURL == d.scope.RootURL() {
		return false
	}
	for _, pattern := range d.excludePatterns {
		if pattern != "" && strings.Contains(normalizedURL, pattern) {
			return true
		}
	}
	return false
}
