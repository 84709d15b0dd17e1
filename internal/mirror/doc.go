// Package mirror orchestrates a full mirror pass over one site.
//
// A run is a pipeline of steps executed in order: discover the page set,
// fetch and rewrite each page, then drain the asset set. All crawl state
// (discovered pages, registered assets, the report under construction) is
// owned by the run and handed to each step explicitly; nothing is global.
//
// Per-page and per-asset failures are recorded in the report and never
// abort the run. The only fatal failures are scope-level: an invalid root
// URL or an output directory that cannot be prepared.
package mirror
