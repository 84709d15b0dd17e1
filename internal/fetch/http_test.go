package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPFetcherFetch(t *testing.T) {
	t.Parallel()

	var sawUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	got, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(got, "ok") {
		t.Errorf("Fetch() body = %q, want it to contain %q", got, "ok")
	}
	if !strings.Contains(sawUserAgent, "Mozilla") {
		t.Errorf("request user agent = %q, want a desktop browser string", sawUserAgent)
	}
}

func TestHTTPFetcherFetchNonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch() error = nil, want error for 404")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error type = %T, want *FetchError", err)
	}
	if fe.URL != srv.URL {
		t.Errorf("FetchError.URL = %q, want %q", fe.URL, srv.URL)
	}
}

func TestHTTPFetcherFetchConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), srv.URL)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error type = %T, want *FetchError", err)
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &FetchError{URL: "https://example.com", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(FetchError, cause) = false, want true")
	}
	if !strings.Contains(err.Error(), "https://example.com") {
		t.Errorf("Error() = %q, want it to name the URL", err.Error())
	}
}
