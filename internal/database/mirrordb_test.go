package database

import (
	"context"
	"testing"
	"time"

	"github.com/sitemirror/sitemirror/internal/model"
)

func openTestDB(t *testing.T) *MirrorDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testReport(runID, rootURL string) *model.MirrorReport {
	r := model.NewMirrorReport(runID, rootURL, "/tmp/out")
	r.StartedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r.FinishedAt = r.StartedAt.Add(time.Minute)
	r.PagesDiscovered = 2
	r.AddPageResult(model.PageResult{URL: rootURL, Status: model.StatusSuccess, OutputFilePath: "index.html"})
	r.AddPageResult(model.PageResult{URL: rootURL + "/broken", Status: model.StatusSkipped, Reason: "timeout"})
	r.AddAssetResults([]model.AssetResult{
		{SourceURL: rootURL + "/style.css", Status: model.StatusSuccess, LocalPath: "style.css"},
	})
	return r
}

func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
	if err == nil {
		t.Fatal("Open() error = nil, want error for missing database")
	}
}

func TestSaveReportAndGetReport(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	want := testReport("run-1", "https://example.com")
	if err := db.SaveReport(ctx, want); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	got, err := db.GetReport(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetReport() = nil, want stored report")
	}
	if got.RootURL != want.RootURL {
		t.Errorf("RootURL = %q, want %q", got.RootURL, want.RootURL)
	}
	if len(got.Pages) != 2 || len(got.Assets) != 1 {
		t.Errorf("stored report has %d pages / %d assets, want 2 / 1", len(got.Pages), len(got.Assets))
	}

	missing, err := db.GetReport(ctx, "no-such-run")
	if err != nil {
		t.Fatalf("GetReport(unknown) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetReport(unknown) = %+v, want nil", missing)
	}
}

func TestListRunsOrdersAndFilters(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	older := testReport("run-old", "https://example.com")
	newer := testReport("run-new", "https://example.com")
	newer.StartedAt = older.StartedAt.Add(time.Hour)
	newer.FinishedAt = newer.StartedAt.Add(time.Minute)
	other := testReport("run-other", "https://other-site.org")

	for _, r := range []*model.MirrorReport{older, newer, other} {
		if err := db.SaveReport(ctx, r); err != nil {
			t.Fatalf("SaveReport(%s) error = %v", r.RunID, err)
		}
	}

	all, err := db.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(all))
	}

	filtered, err := db.ListRuns(ctx, "https://example.com", 0)
	if err != nil {
		t.Fatalf("ListRuns(filtered) error = %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered ListRuns() returned %d runs, want 2", len(filtered))
	}
	if filtered[0].RunID != "run-new" {
		t.Errorf("most recent run = %q, want %q", filtered[0].RunID, "run-new")
	}
	if filtered[0].PagesSucceeded != 1 || filtered[0].PagesSkipped != 1 {
		t.Errorf("summary counters = %d/%d, want 1/1", filtered[0].PagesSucceeded, filtered[0].PagesSkipped)
	}

	limited, err := db.ListRuns(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListRuns(limit) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited ListRuns() returned %d runs, want 1", len(limited))
	}
}

func TestSaveReportRejectsDuplicateRunID(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	r := testReport("run-dup", "https://example.com")
	if err := db.SaveReport(ctx, r); err != nil {
		t.Fatalf("first SaveReport() error = %v", err)
	}
	if err := db.SaveReport(ctx, r); err == nil {
		t.Fatal("second SaveReport() error = nil, want unique constraint failure")
	}
}
