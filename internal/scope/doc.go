// Package scope defines the crawl scope for a mirror run: which URLs belong
// to the target site and how URLs are normalized for deduplication.
//
// The scope is created once at orchestrator start and is immutable. Every URL
// accepted into discovery must resolve to the same registrable domain (with
// or without a "www." prefix) as the root.
package scope
