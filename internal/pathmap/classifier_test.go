package pathmap

import (
	"net/url"
	"testing"
)

// fakeScope accepts every URL whose host matches exactly.
type fakeScope struct{ host string }

func (f fakeScope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Hostname() == f.host
}

func TestClassifierIsValidAsset(t *testing.T) {
	t.Parallel()

	c := NewClassifier(fakeScope{host: "example.com"}, func(u string) bool {
		return u == "https://example.com/gallery"
	})

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/logo.png", true},
		{"https://example.com/theme/style.css", true},
		{"https://example.com/fonts/a.woff2", true},
		{"https://example.com/doc.pdf", true},
		// Query strings signal dynamic content.
		{"https://example.com/logo.png?ver=2", false},
		// Dynamic endpoints are excluded outright.
		{"https://example.com/wp-admin/admin-ajax.js", false},
		{"https://example.com/api/data.json", false},
		// No extension means page reference, not asset.
		{"https://example.com/about", false},
		// Known pages are never assets.
		{"https://example.com/gallery", false},
		// Cross-origin never enters the asset set.
		{"https://other.org/logo.png", false},
	}

	for _, tt := range tests {
		if got := c.IsValidAsset(tt.url); got != tt.want {
			t.Errorf("IsValidAsset(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClassifierIsPageCandidate(t *testing.T) {
	t.Parallel()

	c := NewClassifier(fakeScope{host: "example.com"}, nil)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/about", true},
		{"https://example.com/blog/", true},
		{"https://example.com/contact.html", true},
		{"https://example.com/logo.png", false},
		{"https://example.com/search?q=x", false},
		{"https://example.com/wp-login", false},
		{"https://other.org/about", false},
	}

	for _, tt := range tests {
		if got := c.IsPageCandidate(tt.url); got != tt.want {
			t.Errorf("IsPageCandidate(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestIsExcludedEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/wp-admin/options.php", true},
		{"/admin", true},
		{"/feed/atom", true},
		{"/administrator-bio", false}, // prefix must match a full segment
		{"/apith/page", false},
		{"/about", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsExcludedEndpoint(tt.path); got != tt.want {
			t.Errorf("IsExcludedEndpoint(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
