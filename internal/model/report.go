package model

import "time"

// MirrorReport aggregates the outcome of one full mirror pass.
// Recoverable per-page and per-asset failures never abort the run; they end
// up here as skipped results. The only failures surfaced to the caller as
// errors are scope-level ones (invalid root URL, unusable output directory).
type MirrorReport struct {
	// RunID uniquely identifies this mirror run.
	RunID string `json:"run_id"`

	// RootURL is the root URL the mirror started from.
	RootURL string `json:"root_url"`

	// OutputDir is the absolute path of the output directory.
	OutputDir string `json:"output_dir"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// PagesDiscovered is the size of the discovery set after discovery
	// completed. It is never decremented retroactively by page failures.
	PagesDiscovered int `json:"pages_discovered"`

	// Pages holds one result per discovered page.
	Pages []PageResult `json:"pages"`

	// Assets holds one result per registered asset.
	Assets []AssetResult `json:"assets"`

	// Conflicts lists resolved page/asset path collisions.
	Conflicts []ConflictResolution `json:"conflicts,omitempty"`

	// Cancelled is true when the run was stopped by the caller before all
	// work completed. Results collected up to that point are retained.
	Cancelled bool `json:"cancelled,omitempty"`
}

// NewMirrorReport creates a report for a run starting now.
func NewMirrorReport(runID, rootURL, outputDir string) *MirrorReport {
	return &MirrorReport{
		RunID:     runID,
		RootURL:   rootURL,
		OutputDir: outputDir,
		StartedAt: time.Now(),
	}
}

// AddPageResult appends a page outcome.
// Not safe for concurrent use; pages are processed sequentially by design.
func (r *MirrorReport) AddPageResult(res PageResult) {
	r.Pages = append(r.Pages, res)
}

// AddAssetResults appends a batch of asset outcomes.
// The downloader aggregates its concurrent workers' results before calling
// this, so the report itself needs no locking.
func (r *MirrorReport) AddAssetResults(results []AssetResult) {
	r.Assets = append(r.Assets, results...)
}

// AddConflicts appends resolved path conflicts.
func (r *MirrorReport) AddConflicts(conflicts []ConflictResolution) {
	r.Conflicts = append(r.Conflicts, conflicts...)
}

// PagesSucceeded counts pages written to disk.
func (r *MirrorReport) PagesSucceeded() int {
	return countStatus(r.Pages, StatusSuccess, pageStatus)
}

// PagesSkipped counts pages that failed to fetch or write.
func (r *MirrorReport) PagesSkipped() int {
	return countStatus(r.Pages, StatusSkipped, pageStatus)
}

// AssetsSucceeded counts assets written to disk.
func (r *MirrorReport) AssetsSucceeded() int {
	return countStatus(r.Assets, StatusSuccess, assetStatus)
}

// AssetsSkipped counts assets that failed to download.
func (r *MirrorReport) AssetsSkipped() int {
	return countStatus(r.Assets, StatusSkipped, assetStatus)
}

// Duration returns the elapsed run time.
// Valid only after FinishedAt has been set.
func (r *MirrorReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func pageStatus(p PageResult) ItemStatus   { return p.Status }
func assetStatus(a AssetResult) ItemStatus { return a.Status }

func countStatus[T any](items []T, want ItemStatus, status func(T) ItemStatus) int {
	n := 0
	for _, item := range items {
		if status(item) == want {
			n++
		}
	}
	return n
}
