package assets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sitemirror/sitemirror/internal/model"
	"github.com/sitemirror/sitemirror/internal/pathmap"
	"github.com/sitemirror/sitemirror/internal/scope"
)

func newTestDownloader(t *testing.T, srvURL, outputDir string) (*Downloader, *Registry) {
	t.Helper()

	s, err := scope.New(srvURL)
	if err != nil {
		t.Fatalf("scope.New() error = %v", err)
	}

	registry := NewRegistry()
	d := NewDownloader(registry, pathmap.NewClassifier(s, nil), outputDir)
	return d, registry
}

func resultFor(results []model.AssetResult, sourceURL string) (model.AssetResult, bool) {
	for _, r := range results {
		if r.SourceURL == sourceURL {
			return r, true
		}
	}
	return model.AssetResult{}, false
}

func TestDrainDownloadsAssets(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/images/logo.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/missing.js", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	outputDir := t.TempDir()
	d, registry := newTestDownloader(t, srv.URL, outputDir)
	registry.AddAll([]string{
		srv.URL + "/images/logo.png",
		srv.URL + "/missing.js",
	})

	results, conflicts := d.Drain(context.Background())

	if len(conflicts) != 0 {
		t.Errorf("Drain() conflicts = %v, want none", conflicts)
	}

	logo, ok := resultFor(results, srv.URL+"/images/logo.png")
	if !ok || logo.Status != model.StatusSuccess {
		t.Fatalf("logo result = %+v, want success", logo)
	}
	if logo.LocalPath != "images/logo.png" {
		t.Errorf("logo LocalPath = %q, want %q", logo.LocalPath, "images/logo.png")
	}

	written, err := os.ReadFile(filepath.Join(outputDir, "images", "logo.png"))
	if err != nil {
		t.Fatalf("reading written asset: %v", err)
	}
	if string(written) != "png-bytes" {
		t.Errorf("written asset = %q, want %q", written, "png-bytes")
	}

	missing, ok := resultFor(results, srv.URL+"/missing.js")
	if !ok || missing.Status != model.StatusSkipped {
		t.Errorf("missing result = %+v, want skipped", missing)
	}
}

func TestDrainRenamesAssetCollidingWithPageDirectory(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/blog/logo.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("png-bytes"))
	})

	outputDir := t.TempDir()

	// A page at /blog/logo.png/ was already materialized as a directory.
	pageDir := filepath.Join(outputDir, "blog", "logo.png")
	if err := os.MkdirAll(pageDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pageDir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, registry := newTestDownloader(t, srv.URL, outputDir)
	registry.Add(srv.URL + "/blog/logo.png")

	results, conflicts := d.Drain(context.Background())

	if len(conflicts) != 1 {
		t.Fatalf("Drain() conflicts = %v, want exactly one", conflicts)
	}
	c := conflicts[0]
	if c.RequestedPath != "blog/logo.png" || c.ResolvedPath != "blog/logo_asset.png" {
		t.Errorf("conflict = %+v, want rename blog/logo.png -> blog/logo_asset.png", c)
	}

	r, _ := resultFor(results, srv.URL+"/blog/logo.png")
	if r.Status != model.StatusSuccess || r.LocalPath != "blog/logo_asset.png" {
		t.Errorf("result = %+v, want success at renamed path", r)
	}

	// Both the page and the renamed asset must exist.
	if _, err := os.Stat(filepath.Join(pageDir, "index.html")); err != nil {
		t.Errorf("page index.html missing after asset write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "blog", "logo_asset.png")); err != nil {
		t.Errorf("renamed asset missing: %v", err)
	}
}

func TestDrainFollowsCSSReferences(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/theme/style.css", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `body { background: url(../images/bg.png); }
@font-face { src: url("../fonts/a.woff"); }
.icon { background: url(data:image/png;base64,AAAA); }
.ext { background: url(https://cdn.other.org/x.png); }`)
	})
	mux.HandleFunc("/images/bg.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("bg"))
	})
	mux.HandleFunc("/fonts/a.woff", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("font"))
	})

	outputDir := t.TempDir()
	d, registry := newTestDownloader(t, srv.URL, outputDir)
	registry.Add(srv.URL + "/theme/style.css")

	results, _ := d.Drain(context.Background())

	// Transitively registered assets must appear in the report.
	for _, u := range []string{srv.URL + "/images/bg.png", srv.URL + "/fonts/a.woff"} {
		r, ok := resultFor(results, u)
		if !ok || r.Status != model.StatusSuccess {
			t.Errorf("transitive asset %s result = %+v, want success", u, r)
		}
	}

	css, err := os.ReadFile(filepath.Join(outputDir, "theme", "style.css"))
	if err != nil {
		t.Fatalf("reading written stylesheet: %v", err)
	}
	got := string(css)

	// References are relative to the stylesheet's own location.
	for _, want := range []string{
		"url('../images/bg.png')",
		"url('../fonts/a.woff')",
		"url(data:image/png;base64,AAAA)",
		"url(https://cdn.other.org/x.png)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stylesheet missing %s:\n%s", want, got)
		}
	}
}

func TestRelativeToCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cssPath   string
		assetPath string
		want      string
	}{
		{"style.css", "fonts/a.woff", "./fonts/a.woff"},
		{"theme/style.css", "fonts/a.woff", "../fonts/a.woff"},
		{"a/b/deep.css", "img/x.png", "../../img/x.png"},
	}

	for _, tt := range tests {
		if got := relativeToCSS(tt.cssPath, tt.assetPath); got != tt.want {
			t.Errorf("relativeToCSS(%q, %q) = %q, want %q", tt.cssPath, tt.assetPath, got, tt.want)
		}
	}
}

func TestLocalPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/images/logo.png", "images/logo.png"},
		{"https://example.com/style.css", "style.css"},
		{"https://example.com/", ""},
	}

	for _, tt := range tests {
		if got := LocalPath(tt.url); got != tt.want {
			t.Errorf("LocalPath(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
