package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	// defaultNavigationTimeout bounds a single page load. A page that has
	// not reached network idle within this window is skipped.
	defaultNavigationTimeout = 30 * time.Second

	// defaultQuiescenceWindow is how long the network must stay silent
	// before the page counts as fully rendered.
	defaultQuiescenceWindow = 500 * time.Millisecond

	// defaultUserAgent presents a realistic desktop browser. Some themes
	// serve reduced markup to unknown agents.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
)

// ChromeFetcher renders pages in a shared headless Chrome instance. One
// browser process serves the whole run; each Fetch opens a fresh tab.
type ChromeFetcher struct {
	browserCtx context.Context

	cancelBrowser   context.CancelFunc
	cancelAllocator context.CancelFunc

	timeout    time.Duration
	quiescence time.Duration
	userAgent  string
}

// ChromeOption configures a ChromeFetcher.
type ChromeOption func(*ChromeFetcher)

// WithNavigationTimeout overrides the per-page load timeout.
func WithNavigationTimeout(d time.Duration) ChromeOption {
	return func(f *ChromeFetcher) {
		f.timeout = d
	}
}

// WithQuiescenceWindow overrides the network-idle quiet window.
func WithQuiescenceWindow(d time.Duration) ChromeOption {
	return func(f *ChromeFetcher) {
		f.quiescence = d
	}
}

// WithUserAgent overrides the browser user agent string.
func WithUserAgent(ua string) ChromeOption {
	return func(f *ChromeFetcher) {
		f.userAgent = ua
	}
}

// NewChromeFetcher starts a headless browser bound to ctx. The caller must
// call Close when the run ends.
func NewChromeFetcher(ctx context.Context, opts ...ChromeOption) (*ChromeFetcher, error) {
	f := &ChromeFetcher{
		timeout:    defaultNavigationTimeout,
		quiescence: defaultQuiescenceWindow,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start the browser process up front so a missing Chrome binary fails
	// the run before any page work begins.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, err
	}

	f.browserCtx = browserCtx
	f.cancelBrowser = cancelBrowser
	f.cancelAllocator = cancelAlloc
	return f, nil
}

// Close shuts down the browser process.
func (f *ChromeFetcher) Close() {
	f.cancelBrowser()
	f.cancelAllocator()
}

// Fetch opens a tab, navigates, waits for network idle, and returns the
// serialized DOM.
func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	// The tab context descends from the browser, not from the caller, so
	// caller cancellation has to be forwarded by hand.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	idle := newIdleWatcher(tabCtx, f.quiescence)

	var rendered string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.EmulateViewport(1920, 1080),
		chromedp.Navigate(pageURL),
		idle.wait(),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	return rendered, nil
}

// idleWatcher tracks in-flight requests on a tab and signals once none have
// been active for the quiet window.
type idleWatcher struct {
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	timer    *time.Timer
	done     chan struct{}
	once     sync.Once
}

// newIdleWatcher installs the request listener on the tab context. It must
// be created before navigation starts or early requests go uncounted.
func newIdleWatcher(tabCtx context.Context, quiet time.Duration) *idleWatcher {
	w := &idleWatcher{
		inflight: make(map[network.RequestID]struct{}),
		done:     make(chan struct{}),
	}
	w.timer = time.AfterFunc(quiet, func() {
		w.once.Do(func() { close(w.done) })
	})

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		w.mu.Lock()
		defer w.mu.Unlock()

		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			w.inflight[e.RequestID] = struct{}{}
			w.timer.Stop()
		case *network.EventLoadingFinished:
			delete(w.inflight, e.RequestID)
			if len(w.inflight) == 0 {
				w.timer.Reset(quiet)
			}
		case *network.EventLoadingFailed:
			delete(w.inflight, e.RequestID)
			if len(w.inflight) == 0 {
				w.timer.Reset(quiet)
			}
		}
	})

	return w
}

// wait blocks until the network has been quiet for the configured window or
// the tab context ends.
func (w *idleWatcher) wait() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		select {
		case <-w.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
