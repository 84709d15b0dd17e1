package rewrite

import (
	"slices"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/sitemirror/sitemirror/internal/pathmap"
	"github.com/sitemirror/sitemirror/internal/scope"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	s, err := scope.New("https://example.com")
	if err != nil {
		t.Fatalf("scope.New() error = %v", err)
	}
	return New(s, pathmap.NewClassifier(s, nil))
}

func parse(t *testing.T, src string) *html.Node {
	t.Helper()

	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()

	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func TestRewriteCollectsAssetsAndRelativizesReferences(t *testing.T) {
	t.Parallel()

	src := `<html><head>
<link rel="stylesheet" href="/theme/style.css">
<script src="https://example.com/app.js"></script>
</head><body>
<img src="/images/logo.png">
<video src="/media/intro.mp4" poster="/media/intro-poster.jpg"></video>
<img src="https://cdn.other.org/external.png">
</body></html>`

	e := newTestEngine(t)
	root := parse(t, src)
	assets := e.Rewrite(root, "https://example.com/about/")

	wantAssets := []string{
		"https://example.com/app.js",
		"https://example.com/images/logo.png",
		"https://example.com/media/intro-poster.jpg",
		"https://example.com/media/intro.mp4",
		"https://example.com/theme/style.css",
	}
	if !slices.Equal(assets, wantAssets) {
		t.Errorf("Rewrite() assets = %v, want %v", assets, wantAssets)
	}

	got := render(t, root)
	for _, want := range []string{
		`href="../theme/style.css"`,
		`src="../app.js"`,
		`src="../images/logo.png"`,
		`src="../media/intro.mp4"`,
		`poster="../media/intro-poster.jpg"`,
		// Cross-origin references stay untouched.
		`src="https://cdn.other.org/external.png"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rewritten HTML missing %s:\n%s", want, got)
		}
	}
}

func TestRewriteAnchors(t *testing.T) {
	t.Parallel()

	src := `<html><body>
<a href="/about/">About</a>
<a href="/contact.html">Contact</a>
<a href="/">Home</a>
<a href="#section">Jump</a>
<a href="mailto:hi@example.com">Mail</a>
<a href="tel:+4912345">Call</a>
<a href="javascript:void(0)">Noop</a>
<a href="https://other.org/page">External</a>
</body></html>`

	e := newTestEngine(t)
	root := parse(t, src)
	assets := e.Rewrite(root, "https://example.com/")

	if len(assets) != 0 {
		t.Errorf("anchors registered assets: %v", assets)
	}

	got := render(t, root)
	for _, want := range []string{
		`href="./about/index.html"`,
		`href="./contact.html"`,
		`href="./index.html"`,
		// Untouched anchor flavors.
		`href="#section"`,
		`href="mailto:hi@example.com"`,
		`href="tel:+4912345"`,
		`href="javascript:void(0)"`,
		`href="https://other.org/page"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rewritten HTML missing %s:\n%s", want, got)
		}
	}
}

func TestRewriteSkipsQueryStringAssets(t *testing.T) {
	t.Parallel()

	src := `<html><body><img src="/logo.png?ver=3"></body></html>`

	e := newTestEngine(t)
	root := parse(t, src)
	assets := e.Rewrite(root, "https://example.com/")

	if len(assets) != 0 {
		t.Errorf("query-string URL registered as asset: %v", assets)
	}
	if got := render(t, root); !strings.Contains(got, `src="/logo.png?ver=3"`) {
		t.Errorf("query-string reference was rewritten:\n%s", got)
	}
}

func TestRewriteRunsSanitizerFirst(t *testing.T) {
	t.Parallel()

	src := `<html><body>
<div class="cookie-banner"><img src="/banner-bg.png"></div>
<form action="/subscribe" method="post"><input type="submit"></form>
<p>content</p>
</body></html>`

	e := newTestEngine(t)
	root := parse(t, src)
	assets := e.Rewrite(root, "https://example.com/")

	// The banner subtree is gone before reference collection, so its image
	// never becomes a download candidate.
	if slices.Contains(assets, "https://example.com/banner-bg.png") {
		t.Errorf("asset collected from removed banner subtree: %v", assets)
	}

	got := render(t, root)
	if strings.Contains(got, "banner-bg.png") {
		t.Errorf("banner survived sanitization:\n%s", got)
	}
	if strings.Contains(got, `method="post"`) {
		t.Errorf("form not neutralized:\n%s", got)
	}
}

// Rewriting the same document layout from two different page depths must
// produce depth-appropriate prefixes without any shared state between runs.
func TestRewriteDepthPrefixes(t *testing.T) {
	t.Parallel()

	const src = `<html><head><link rel="stylesheet" href="/style.css"></head><body></body></html>`

	e := newTestEngine(t)

	tests := []struct {
		pageURL string
		want    string
	}{
		{"https://example.com/", `href="./style.css"`},
		{"https://example.com/about/", `href="../style.css"`},
		{"https://example.com/contact.html", `href="./style.css"`},
		{"https://example.com/a/b/", `href="../../style.css"`},
	}

	for _, tt := range tests {
		root := parse(t, src)
		e.Rewrite(root, tt.pageURL)
		if got := render(t, root); !strings.Contains(got, tt.want) {
			t.Errorf("page %s: missing %s in:\n%s", tt.pageURL, tt.want, got)
		}
	}
}
