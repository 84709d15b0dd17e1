package model

// PageRecord represents a single mirrored page.
// It is created when the fetcher successfully renders a URL and is owned
// exclusively by the orchestrator until its HTML has been written to disk.
// Records are never mutated after the write.
type PageRecord struct {
	// URL is the normalized page URL as it appears in the discovery set.
	URL string `json:"url"`

	// RenderedHTML is the serialized DOM after the render pass and after
	// reference rewriting. Empty for pages that failed to fetch.
	RenderedHTML string `json:"-"` // Excluded from JSON to keep reports small

	// OutputFilePath is the path of the written HTML file, relative to the
	// output root (e.g. "about/index.html").
	OutputFilePath string `json:"output_file_path"`
}

// ItemStatus is the outcome of processing a single page or asset.
//
// Design decision: We use explicit result values instead of errors as
// control flow because per-item failures never abort the run; they are
// aggregated into the report and reflected only in logs and counters.
type ItemStatus string

const (
	// StatusSuccess indicates the item was fetched and written.
	StatusSuccess ItemStatus = "success"

	// StatusSkipped indicates the item failed and was skipped.
	// The Reason field on the result explains why.
	StatusSkipped ItemStatus = "skipped"
)

// PageResult records the outcome of mirroring one page.
type PageResult struct {
	// URL is the normalized page URL.
	URL string `json:"url"`

	// Status is success or skipped.
	Status ItemStatus `json:"status"`

	// Reason holds the failure description when Status is StatusSkipped.
	Reason string `json:"reason,omitempty"`

	// OutputFilePath is the written file path relative to the output root.
	// Empty when the page was skipped.
	OutputFilePath string `json:"output_file_path,omitempty"`
}
