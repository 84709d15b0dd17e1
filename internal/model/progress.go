package model

// Progress is the incremental payload delivered to the caller's callback.
// It is emitted at run start, after discovery completes, before and after
// each page fetch, and at run completion. Zero-valued fields mean "no change"
// for the counters and "nothing new" for the strings.
type Progress struct {
	// TotalPages is the number of discovered pages.
	// Set once discovery completes; never decremented by page failures.
	TotalPages int

	// CompletedPages is the number of pages processed so far,
	// counting both successes and skips.
	CompletedPages int

	// CurrentPage is the URL currently being fetched, if any.
	CurrentPage string

	// Log is a free-text log line, if any.
	Log string
}

// ProgressFunc receives progress updates during a mirror run.
// A nil ProgressFunc is valid and disables progress reporting.
// Callbacks are invoked from the orchestrator goroutine only, so
// implementations do not need to be safe for concurrent use.
type ProgressFunc func(Progress)
