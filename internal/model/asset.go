package model

// AssetRecord represents a same-domain resource that is downloaded verbatim
// rather than rendered: images, stylesheets, scripts, fonts, media, documents.
//
// Invariant: LocalPath is always relative to the output root, never to the
// referencing page. Relative hrefs embedded in HTML are computed per-reference
// at rewrite time and are not stored here.
type AssetRecord struct {
	// SourceURL is the absolute URL the asset was discovered at.
	SourceURL string `json:"source_url"`

	// LocalPath is the asset's on-disk path relative to the output root.
	// It mirrors the URL path, except when a conflict rename occurred.
	LocalPath string `json:"local_path"`
}

// AssetResult records the outcome of downloading one asset.
type AssetResult struct {
	// SourceURL is the absolute asset URL.
	SourceURL string `json:"source_url"`

	// Status is success or skipped.
	Status ItemStatus `json:"status"`

	// Reason holds the failure description when Status is StatusSkipped.
	Reason string `json:"reason,omitempty"`

	// LocalPath is the written file path relative to the output root.
	// May differ from the URL path when a conflict rename occurred.
	LocalPath string `json:"local_path,omitempty"`
}

// ConflictResolution records a page-directory vs. asset-file path collision
// that was resolved by renaming the asset. This is informational, not an
// error: the two namespaces are populated independently and collisions are
// expected.
type ConflictResolution struct {
	// SourceURL is the asset whose path collided.
	SourceURL string `json:"source_url"`

	// RequestedPath is the path the asset would have occupied.
	RequestedPath string `json:"requested_path"`

	// ResolvedPath is the renamed path actually written.
	ResolvedPath string `json:"resolved_path"`
}
