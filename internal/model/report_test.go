package model

import (
	"testing"
	"time"
)

func TestMirrorReportCounters(t *testing.T) {
	t.Parallel()

	r := NewMirrorReport("run-1", "https://example.com", "/tmp/out")
	r.AddPageResult(PageResult{URL: "https://example.com", Status: StatusSuccess, OutputFilePath: "index.html"})
	r.AddPageResult(PageResult{URL: "https://example.com/broken", Status: StatusSkipped, Reason: "timeout"})
	r.AddAssetResults([]AssetResult{
		{SourceURL: "https://example.com/style.css", Status: StatusSuccess, LocalPath: "style.css"},
		{SourceURL: "https://example.com/missing.png", Status: StatusSkipped, Reason: "status 404"},
		{SourceURL: "https://example.com/logo.svg", Status: StatusSuccess, LocalPath: "logo.svg"},
	})

	if got := r.PagesSucceeded(); got != 1 {
		t.Errorf("PagesSucceeded = %d, want 1", got)
	}
	if got := r.PagesSkipped(); got != 1 {
		t.Errorf("PagesSkipped = %d, want 1", got)
	}
	if got := r.AssetsSucceeded(); got != 2 {
		t.Errorf("AssetsSucceeded = %d, want 2", got)
	}
	if got := r.AssetsSkipped(); got != 1 {
		t.Errorf("AssetsSkipped = %d, want 1", got)
	}
}

func TestMirrorReportDuration(t *testing.T) {
	t.Parallel()

	r := NewMirrorReport("run-2", "https://example.com", "/tmp/out")
	r.StartedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.FinishedAt = r.StartedAt.Add(90 * time.Second)

	if got := r.Duration(); got != 90*time.Second {
		t.Errorf("Duration = %s, want 90s", got)
	}
}
