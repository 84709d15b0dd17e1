package mirror

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sitemirror/sitemirror/internal/assets"
	"github.com/sitemirror/sitemirror/internal/discover"
	"github.com/sitemirror/sitemirror/internal/fetch"
	"github.com/sitemirror/sitemirror/internal/model"
	"github.com/sitemirror/sitemirror/internal/pathmap"
	"github.com/sitemirror/sitemirror/internal/rewrite"
)

// DiscoverStep builds the page discovery set from sitemaps and homepage
// links.
type DiscoverStep struct {
	fetcher  fetch.Fetcher
	client   *http.Client
	logger   *slog.Logger
	excludes []string
}

// NewDiscoverStep creates the discovery step. The fetcher renders the
// homepage for link extraction; a nil client uses the discoverer's default
// for sitemap requests.
func NewDiscoverStep(fetcher fetch.Fetcher, client *http.Client, excludes []string, logger *slog.Logger) *DiscoverStep {
	return &DiscoverStep{fetcher: fetcher, client: client, excludes: excludes, logger: logger}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return "discover"
}

// Do populates the run's page set and reports the total to the caller.
func (s *DiscoverStep) Do(ctx context.Context, r *run) error {
	opts := []discover.Option{discover.WithLogger(s.logger)}
	if s.client != nil {
		opts = append(opts, discover.WithHTTPClient(s.client))
	}
	if len(s.excludes) > 0 {
		opts = append(opts, discover.WithExcludePatterns(s.excludes))
	}
	d := discover.New(r.scope, s.fetcher, opts...)

	urls, err := d.Discover(ctx)
	if err != nil {
		return err
	}

	r.pages = urls
	r.pageSet = make(map[string]struct{}, len(urls))
	for _, u := range urls {
		r.pageSet[u] = struct{}{}
	}
	r.report.PagesDiscovered = len(urls)

	s.logger.Info("discovery complete", "pages", len(urls))
	r.emit(model.Progress{TotalPages: len(urls)})
	return nil
}

// MirrorPagesStep fetches, rewrites, and writes every discovered page.
type MirrorPagesStep struct {
	fetcher fetch.Fetcher
	logger  *slog.Logger

	// delay is the politeness pause between page fetches.
	delay time.Duration
}

// NewMirrorPagesStep creates the page mirroring step.
func NewMirrorPagesStep(fetcher fetch.Fetcher, delay time.Duration, logger *slog.Logger) *MirrorPagesStep {
	return &MirrorPagesStep{fetcher: fetcher, delay: delay, logger: logger}
}

// Name returns the step name.
func (s *MirrorPagesStep) Name() string {
	return "mirror_pages"
}

// Do processes pages sequentially. Each page is rendered, sanitized and
// rewritten, then written to its mapped output path. A page failure is
// recorded and skipped; cancellation marks the remaining pages as skipped
// and returns.
func (s *MirrorPagesStep) Do(ctx context.Context, r *run) error {
	engine := rewrite.New(r.scope, pathmap.NewClassifier(r.scope, r.isKnownPage))

	for i, pageURL := range r.pages {
		select {
		case <-ctx.Done():
			r.report.Cancelled = true
			for _, remaining := range r.pages[i:] {
				r.report.AddPageResult(model.PageResult{
					URL:    remaining,
					Status: model.StatusSkipped,
					Reason: "run cancelled",
				})
			}
			return nil
		default:
		}

		r.emit(model.Progress{
			TotalPages:     len(r.pages),
			CompletedPages: i,
			CurrentPage:    pageURL,
		})

		result := s.mirrorPage(ctx, r, engine, pageURL)
		r.report.AddPageResult(result)

		if result.Status == model.StatusSuccess {
			s.logger.Info("page mirrored", "url", pageURL, "file", result.OutputFilePath)
		} else {
			s.logger.Warn("page skipped", "url", pageURL, "reason", result.Reason)
		}

		if s.delay > 0 && i < len(r.pages)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(s.delay):
			}
		}
	}

	r.emit(model.Progress{
		TotalPages:     len(r.pages),
		CompletedPages: len(r.pages),
	})
	return nil
}

// mirrorPage handles one page end to end: fetch, parse, rewrite, serialize,
// write. All failures collapse into a skipped result.
func (s *MirrorPagesStep) mirrorPage(ctx context.Context, r *run, engine *rewrite.Engine, pageURL string) model.PageResult {
	skip := func(reason string) model.PageResult {
		return model.PageResult{URL: pageURL, Status: model.StatusSkipped, Reason: reason}
	}

	rendered, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return skip(err.Error())
	}

	root, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return skip("parse failed: " + err.Error())
	}

	r.registry.AddAll(engine.Rewrite(root, pageURL))

	var sb strings.Builder
	if err := html.Render(&sb, root); err != nil {
		return skip("serialize failed: " + err.Error())
	}

	record := model.PageRecord{
		URL:            pageURL,
		RenderedHTML:   sb.String(),
		OutputFilePath: pathmap.PageOutputPath(pageURL),
	}
	if err := writePage(r.outputDir, record); err != nil {
		return skip("write failed: " + err.Error())
	}

	return model.PageResult{
		URL:            pageURL,
		Status:         model.StatusSuccess,
		OutputFilePath: record.OutputFilePath,
	}
}

// DownloadAssetsStep drains the asset registry, including assets registered
// transitively by CSS processing.
type DownloadAssetsStep struct {
	client      *http.Client
	concurrency int64
	logger      *slog.Logger
}

// NewDownloadAssetsStep creates the asset download step. A nil client uses
// the downloader's default.
func NewDownloadAssetsStep(client *http.Client, concurrency int64, logger *slog.Logger) *DownloadAssetsStep {
	return &DownloadAssetsStep{client: client, concurrency: concurrency, logger: logger}
}

// Name returns the step name.
func (s *DownloadAssetsStep) Name() string {
	return "download_assets"
}

// Do downloads every registered asset and records outcomes and resolved
// conflicts in the report.
func (s *DownloadAssetsStep) Do(ctx context.Context, r *run) error {
	s.logger.Info("downloading assets", "registered", r.registry.Size())

	opts := []assets.Option{
		assets.WithLogger(s.logger),
		assets.WithConcurrency(s.concurrency),
	}
	if s.client != nil {
		opts = append(opts, assets.WithHTTPClient(s.client))
	}

	classifier := pathmap.NewClassifier(r.scope, r.isKnownPage)
	d := assets.NewDownloader(r.registry, classifier, r.outputDir, opts...)

	results, conflicts := d.Drain(ctx)
	r.report.AddAssetResults(results)
	r.report.AddConflicts(conflicts)

	s.logger.Info("assets complete",
		"succeeded", r.report.AssetsSucceeded(),
		"skipped", r.report.AssetsSkipped(),
	)
	return nil
}
