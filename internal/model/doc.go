// Package model defines the core data structures shared across the
// mirroring pipeline: page and asset records, per-item results, the
// aggregated run report, and the progress callback payload.
//
// Design decision: All cross-package types live here rather than in the
// packages that produce them because:
//  1. It avoids import cycles between the orchestrator and its components
//  2. Report writers can consume results without importing pipeline code
//  3. The database layer serializes these types directly
package model
