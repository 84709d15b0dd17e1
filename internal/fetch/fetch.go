package fetch

import (
	"context"
	"fmt"
)

// Fetcher loads a URL and returns the final HTML of the page.
type Fetcher interface {
	// Fetch returns the rendered HTML for the given URL. A returned error
	// is always a *FetchError and is recoverable: the caller logs it and
	// continues with the next page.
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// FetchError wraps any failure to load or render a single page. It is
// recoverable by design: one broken page never aborts the run.
type FetchError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
