package scope

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrInvalidRootURL is returned when the root URL cannot be parsed or uses
// a scheme other than http or https.
var ErrInvalidRootURL = errors.New("invalid root URL: must be an http or https URL")

// Scope holds the crawl scope for one mirror run.
// It is immutable after creation.
type Scope struct {
	// root is the parsed root URL.
	root *url.URL

	// domain is the registrable domain of the root host, without any
	// "www." prefix. All same-site checks compare against this value.
	domain string
}

// New creates a Scope from the given root URL.
// A missing scheme is treated as https. Schemes other than http/https are
// rejected as a scope error since the whole run would be meaningless.
func New(rawURL string) (*Scope, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, ErrInvalidRootURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRootURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidRootURL
	}
	if u.Hostname() == "" {
		return nil, ErrInvalidRootURL
	}

	return &Scope{
		root:   u,
		domain: registrableDomain(u.Hostname()),
	}, nil
}

// RootURL returns the normalized root URL string.
func (s *Scope) RootURL() string {
	return Normalize(s.root.String())
}

// Domain returns the registrable domain used for same-site checks.
func (s *Scope) Domain() string {
	return s.domain
}

// Contains reports whether the given URL belongs to the mirrored site.
// A URL is in scope when its registrable domain equals the root's, which
// makes "example.com", "www.example.com", and "blog.example.com" all
// equivalent for scope purposes. URLs on any other domain are never added
// to the discovery or asset sets.
func (s *Scope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := u.Hostname()
	if host == "" {
		// A relative URL that survived resolution is a caller bug,
		// but it cannot leave the site either way.
		return true
	}

	// Exact host match covers IP addresses and localhost, where no
	// registrable domain exists (important for tests and intranets).
	if strings.EqualFold(u.Host, s.root.Host) || strings.EqualFold(host, s.root.Hostname()) {
		return true
	}

	return strings.EqualFold(registrableDomain(host), s.domain)
}

// Normalize returns the canonical form of a URL used as the key of the
// discovery set: fragment dropped, scheme and host lowercased, and a single
// trailing slash stripped unless the path ends in a page extension. This
// guarantees "/about" and "/about/" collapse to one discovery entry.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if p := u.Path; strings.HasSuffix(p, "/") && !hasPageExtension(p) {
		u.Path = strings.TrimSuffix(p, "/")
	}

	return u.String()
}

// hasPageExtension reports whether the path ends in an extension that marks
// it as a concrete HTML file rather than a directory-style page URL.
func hasPageExtension(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

// registrableDomain returns the effective TLD plus one for a host, with the
// "www." prefix stripped first so www and apex hosts compare equal. Hosts
// without a registrable domain (IPs, localhost) are returned as-is.
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
