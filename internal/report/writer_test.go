package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sitemirror/sitemirror/internal/model"
)

func sampleReport() *model.MirrorReport {
	r := model.NewMirrorReport("run-1", "https://example.com", "/tmp/mirror")
	r.StartedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.FinishedAt = r.StartedAt.Add(42 * time.Second)
	r.PagesDiscovered = 3

	r.AddPageResult(model.PageResult{
		URL:            "https://example.com",
		Status:         model.StatusSuccess,
		OutputFilePath: "index.html",
	})
	r.AddPageResult(model.PageResult{
		URL:            "https://example.com/about",
		Status:         model.StatusSuccess,
		OutputFilePath: "about/index.html",
	})
	r.AddPageResult(model.PageResult{
		URL:    "https://example.com/broken",
		Status: model.StatusSkipped,
		Reason: "navigation timeout",
	})

	r.AddAssetResults([]model.AssetResult{
		{SourceURL: "https://example.com/style.css", Status: model.StatusSuccess, LocalPath: "style.css"},
		{SourceURL: "https://example.com/gone.png", Status: model.StatusSkipped, Reason: "unexpected status 404"},
	})
	r.AddConflicts([]model.ConflictResolution{
		{SourceURL: "https://example.com/blog/logo.png", RequestedPath: "blog/logo.png", ResolvedPath: "blog/logo_asset.png"},
	})
	return r
}

func TestSimpleWriterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf, WithVerbose(true))

	n, err := w.Write(sampleReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() n = %d, buffer length = %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"SITE MIRROR REPORT",
		"https://example.com",
		"Pages discovered:  3",
		"Pages mirrored:    2",
		"Pages skipped:     1",
		"Assets downloaded: 1",
		"Assets skipped:    1",
		"blog/logo.png -> blog/logo_asset.png",
		"navigation timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONWriterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded model.MirrorReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RunID != "run-1" {
		t.Errorf("decoded RunID = %q, want %q", decoded.RunID, "run-1")
	}
	if len(decoded.Pages) != 3 {
		t.Errorf("decoded pages = %d, want 3", len(decoded.Pages))
	}
	if len(decoded.Conflicts) != 1 {
		t.Errorf("decoded conflicts = %d, want 1", len(decoded.Conflicts))
	}
}

func TestMarkdownWriterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Site Mirror Report",
		"## Summary",
		"## Resolved Path Conflicts",
		"## Skipped Items",
		"`https://example.com`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// failingWriter always errors to exercise MultiWriter's early stop.
type failingWriter struct{}

func (failingWriter) Write(*model.MirrorReport) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriterWrite(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&first), NewJSONWriter(&second))

	if _, err := mw.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if first.Len() == 0 || second.Len() == 0 {
		t.Error("MultiWriter did not write to all destinations")
	}
}

func TestMultiWriterStopsOnError(t *testing.T) {
	t.Parallel()

	var after bytes.Buffer
	mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))

	if _, err := mw.Write(sampleReport()); err == nil {
		t.Fatal("Write() error = nil, want failure from first writer")
	}
	if after.Len() != 0 {
		t.Error("MultiWriter continued after error")
	}
}
