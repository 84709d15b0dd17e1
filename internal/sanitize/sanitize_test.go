package sanitize

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func render(t *testing.T, n *html.Node) string {
	t.Helper()

	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func parse(t *testing.T, src string) *html.Node {
	t.Helper()

	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func TestApplyRemovesBannerByAttribute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{
			name: "id keyword",
			src:  `<html><body><div id="cookie-notice">We use cookies</div><p>content</p></body></html>`,
		},
		{
			name: "class keyword",
			src:  `<html><body><div class="gdpr-overlay">notice</div><p>content</p></body></html>`,
		},
		{
			name: "aria label keyword",
			src:  `<html><body><div aria-label="Consent dialog">notice</div><p>content</p></body></html>`,
		},
		{
			name: "localized class keyword",
			src:  `<html><body><div class="datenschutz-hinweis">Hinweis</div><p>content</p></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := parse(t, tt.src)
			New().Apply(root)

			got := render(t, root)
			if strings.Contains(got, "notice") || strings.Contains(got, "cookies") || strings.Contains(got, "Hinweis") {
				t.Errorf("banner subtree survived: %s", got)
			}
			if !strings.Contains(got, "<p>content</p>") {
				t.Errorf("unrelated content removed: %s", got)
			}
		})
	}
}

func TestApplyRemovesBannerByText(t *testing.T) {
	t.Parallel()

	src := `<html><body>` +
		`<div style="position:fixed">This site uses cookies. <button>Accept</button></div>` +
		`<p>article text</p>` +
		`</body></html>`

	root := parse(t, src)
	New().Apply(root)

	got := render(t, root)
	if strings.Contains(got, "uses cookies") {
		t.Errorf("overlay banner survived: %s", got)
	}
	if !strings.Contains(got, "article text") {
		t.Errorf("article removed: %s", got)
	}
}

// A long privacy-policy article mentions cookies and even the word accept,
// but is neither overlay positioned nor short, so it must survive.
func TestApplyKeepsLongPrivacyProse(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("Our privacy policy explains how we accept cookie preferences. ", 30)
	src := `<html><body><article><p>` + long + `</p></article></body></html>`

	root := parse(t, src)
	New().Apply(root)

	if !strings.Contains(render(t, root), "privacy policy explains") {
		t.Error("long prose was removed by the text heuristic")
	}
}

// Even a body drenched in consent vocabulary must keep its html and body
// elements.
func TestApplyNeverRemovesBody(t *testing.T) {
	t.Parallel()

	src := `<html><body id="cookie-consent" class="gdpr">` +
		`<div class="cookie-banner">Accept cookies</div>` +
		`</body></html>`

	root := parse(t, src)
	New().Apply(root)

	got := render(t, root)
	if !strings.Contains(got, "<body") || !strings.Contains(got, "<html") {
		t.Fatalf("document root damaged: %s", got)
	}
	if strings.Contains(got, "Accept cookies") {
		t.Errorf("banner inside body survived: %s", got)
	}
}

func TestApplyNeutralizesForms(t *testing.T) {
	t.Parallel()

	src := `<html><body>` +
		`<form action="https://example.com/subscribe" method="post">` +
		`<input type="text" name="email">` +
		`<input type="submit" value="Subscribe">` +
		`<button type="submit">Go</button>` +
		`</form>` +
		`</body></html>`

	root := parse(t, src)
	New().Apply(root)

	got := render(t, root)
	if strings.Contains(got, "example.com/subscribe") {
		t.Errorf("form action not cleared: %s", got)
	}
	if strings.Contains(got, `method="post"`) {
		t.Errorf("form method not forced to get: %s", got)
	}
	if strings.Contains(got, `type="submit"`) {
		t.Errorf("submit control not downgraded: %s", got)
	}
	if !strings.Contains(got, `type="text"`) {
		t.Errorf("text input altered: %s", got)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	src := `<html><body>` +
		`<div class="cookie-banner">Accept cookies</div>` +
		`<form action="/x" method="post"><input type="submit"></form>` +
		`<p>content</p>` +
		`</body></html>`

	s := New()

	root := parse(t, src)
	s.Apply(root)
	first := render(t, root)

	s.Apply(root)
	second := render(t, root)

	if first != second {
		t.Errorf("second pass changed output:\nfirst:  %s\nsecond: %s", first, second)
	}
}
