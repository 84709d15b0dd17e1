package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sitemirror/sitemirror/internal/assets"
	"github.com/sitemirror/sitemirror/internal/config"
	"github.com/sitemirror/sitemirror/internal/database"
	"github.com/sitemirror/sitemirror/internal/fetch"
	"github.com/sitemirror/sitemirror/internal/model"
	"github.com/sitemirror/sitemirror/internal/scope"
)

// Orchestrator sequences one mirror run: scope setup, output directory
// preparation, discovery, page mirroring, asset draining, and persistence.
type Orchestrator struct {
	cfg    *config.Config
	logger *slog.Logger

	// fetcher overrides the fetcher chosen from the config.
	// Used by tests and embedders that bring their own renderer.
	fetcher fetch.Fetcher

	// client overrides the HTTP client used for sitemaps and assets.
	client *http.Client
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithFetcher replaces the page fetcher chosen from the config.
func WithFetcher(f fetch.Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = f
	}
}

// WithHTTPClient replaces the HTTP client used for sitemap and asset
// requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) {
		o.client = c
	}
}

// New creates an Orchestrator for the given configuration.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the full mirror pass and returns the aggregated report.
// The returned error is non-nil only for scope-level failures; per-page
// and per-asset failures are inside the report.
func (o *Orchestrator) Run(ctx context.Context, progress model.ProgressFunc) (*model.MirrorReport, error) {
	s, err := scope.New(o.cfg.RootURL)
	if err != nil {
		return nil, err
	}

	outputDir, err := o.prepareOutputDir()
	if err != nil {
		return nil, err
	}

	release, err := acquireLock(outputDir)
	if err != nil {
		return nil, err
	}
	defer release()

	fetcher, cleanup, err := o.newFetcher(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start fetcher: %w", err)
	}
	defer cleanup()

	report := model.NewMirrorReport(uuid.NewString(), s.RootURL(), outputDir)
	r := &run{
		scope:     s,
		outputDir: outputDir,
		registry:  assets.NewRegistry(),
		report:    report,
		progress:  progress,
	}

	o.logger.Info("mirror run started", "site", s.RootURL(), "output", outputDir, "run_id", report.RunID)
	r.emit(model.Progress{Log: "mirror run started: " + s.RootURL()})

	steps := []Step{
		NewDiscoverStep(fetcher, o.client, o.cfg.ExcludePatterns, o.logger),
		NewMirrorPagesStep(fetcher, o.cfg.PageDelay, o.logger),
		NewDownloadAssetsStep(o.client, int64(o.cfg.AssetConcurrency), o.logger),
	}

	err = executeSteps(ctx, o.logger, r, steps)
	report.FinishedAt = time.Now()
	if err != nil {
		return report, err
	}

	if report.Cancelled {
		o.logger.Warn("mirror run cancelled",
			"pages", report.PagesSucceeded(),
			"duration", report.Duration().Round(time.Millisecond),
		)
		r.emit(model.Progress{Log: "mirror cancelled, partial tree kept"})
	} else {
		o.logger.Info("mirror run finished",
			"pages", report.PagesSucceeded(),
			"assets", report.AssetsSucceeded(),
			"duration", report.Duration().Round(time.Millisecond),
		)
		r.emit(model.Progress{
			TotalPages:     report.PagesDiscovered,
			CompletedPages: report.PagesDiscovered,
			Log:            fmt.Sprintf("mirror complete: %d pages saved", report.PagesSucceeded()),
		})
	}

	o.persist(ctx, report)
	return report, nil
}

// prepareOutputDir creates the output directory and returns its absolute
// path. Failure here is fatal: nothing can be mirrored without it.
func (o *Orchestrator) prepareOutputDir() (string, error) {
	abs, err := filepath.Abs(o.cfg.OutputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare output directory: %w", err)
	}
	return abs, nil
}

// newFetcher picks the page fetcher: an explicit override, plain HTTP when
// rendering is disabled, or a headless browser otherwise.
func (o *Orchestrator) newFetcher(ctx context.Context) (fetch.Fetcher, func(), error) {
	if o.fetcher != nil {
		return o.fetcher, func() {}, nil
	}

	if o.cfg.NoRender {
		f := fetch.NewHTTPFetcher(fetch.WithHTTPUserAgent(o.cfg.UserAgent))
		return f, func() {}, nil
	}

	f, err := fetch.NewChromeFetcher(ctx,
		fetch.WithNavigationTimeout(o.cfg.NavigationTimeout),
		fetch.WithUserAgent(o.cfg.UserAgent),
	)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// persist stores the finished report in the run-history database when one
// is configured. History is best effort: a storage failure is logged, not
// surfaced, because the mirror on disk is already complete.
func (o *Orchestrator) persist(ctx context.Context, report *model.MirrorReport) {
	if !o.cfg.SaveToDB || o.cfg.DBDir == "" {
		return
	}

	// Cancelled runs are still recorded, so saving must outlive the run
	// context.
	ctx = context.WithoutCancel(ctx)

	db, err := database.Open(o.cfg.DBDir, database.DefaultOptions())
	if err != nil {
		o.logger.Warn("run history unavailable", "error", err)
		return
	}
	defer db.Close()

	if err := db.SaveReport(ctx, report); err != nil {
		o.logger.Warn("failed to save run history", "error", err)
		return
	}
	o.logger.Debug("run history saved", "run_id", report.RunID, "db", db.Path())
}
