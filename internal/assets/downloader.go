package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sitemirror/sitemirror/internal/model"
	"github.com/sitemirror/sitemirror/internal/pathmap"
)

const (
	// downloadTimeout bounds a single asset GET.
	downloadTimeout = 10 * time.Second

	// defaultConcurrency is the number of simultaneous asset downloads.
	defaultConcurrency = 4

	// conflictSuffix is appended to the base name of an asset whose target
	// path is occupied by a page directory.
	conflictSuffix = "_asset"
)

// Downloader drains the asset registry into the output directory.
type Downloader struct {
	registry   *Registry
	classifier *pathmap.Classifier
	outputDir  string
	client     *http.Client
	logger     *slog.Logger
	sem        *semaphore.Weighted
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient replaces the download client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) {
		d.client = c
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Downloader) {
		d.logger = l
	}
}

// WithConcurrency sets the number of parallel downloads.
func WithConcurrency(n int64) Option {
	return func(d *Downloader) {
		d.sem = semaphore.NewWeighted(n)
	}
}

// NewDownloader creates a Downloader writing below outputDir. The
// classifier validates transitive references found in CSS files.
func NewDownloader(registry *Registry, classifier *pathmap.Classifier, outputDir string, opts ...Option) *Downloader {
	d := &Downloader{
		registry:   registry,
		classifier: classifier,
		outputDir:  outputDir,
		client:     &http.Client{Timeout: downloadTimeout},
		logger:     slog.Default(),
		sem:        semaphore.NewWeighted(defaultConcurrency),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Drain downloads every registered asset, including assets registered
// transitively by CSS processing while the drain is running. It returns one
// result per asset plus the list of resolved path conflicts. Individual
// failures are recorded and skipped, never fatal.
func (d *Downloader) Drain(ctx context.Context) ([]model.AssetResult, []model.ConflictResolution) {
	var (
		mu        sync.Mutex
		results   []model.AssetResult
		conflicts []model.ConflictResolution
	)

	for {
		batch := d.registry.TakePending()
		if len(batch) == 0 {
			break
		}

		var wg sync.WaitGroup
		for _, sourceURL := range batch {
			if err := d.sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				results = append(results, model.AssetResult{
					SourceURL: sourceURL,
					Status:    model.StatusSkipped,
					Reason:    "run cancelled",
				})
				mu.Unlock()
				continue
			}

			wg.Add(1)
			go func(sourceURL string) {
				defer wg.Done()
				defer d.sem.Release(1)

				result, conflict := d.download(ctx, sourceURL)

				mu.Lock()
				defer mu.Unlock()
				results = append(results, result)
				if conflict != nil {
					conflicts = append(conflicts, *conflict)
				}
			}(sourceURL)
		}
		wg.Wait()
	}

	return results, conflicts
}

// download fetches one asset and writes it below the output root.
func (d *Downloader) download(ctx context.Context, sourceURL string) (model.AssetResult, *model.ConflictResolution) {
	skip := func(reason string) (model.AssetResult, *model.ConflictResolution) {
		d.logger.Warn("asset skipped", "url", sourceURL, "reason", reason)
		return model.AssetResult{
			SourceURL: sourceURL,
			Status:    model.StatusSkipped,
			Reason:    reason,
		}, nil
	}

	localPath := LocalPath(sourceURL)
	if localPath == "" {
		return skip("empty asset path")
	}

	body, err := d.get(ctx, sourceURL)
	if err != nil {
		return skip(err.Error())
	}

	if strings.EqualFold(path.Ext(localPath), ".css") {
		body = d.processCSS(sourceURL, localPath, body)
	}

	localPath, conflict := d.resolveConflict(sourceURL, localPath)
	if err := d.write(localPath, body); err != nil {
		return skip(err.Error())
	}

	return model.AssetResult{
		SourceURL: sourceURL,
		Status:    model.StatusSuccess,
		LocalPath: localPath,
	}, conflict
}

// get retrieves the asset body; any non-2xx status is an error.
func (d *Downloader) get(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// resolveConflict checks whether the asset's target path is occupied by a
// page directory and renames the asset when it is. The rename must happen,
// not merely be detected: pages and assets are keyed by URL path
// independently, so collisions are expected.
func (d *Downloader) resolveConflict(sourceURL, localPath string) (string, *model.ConflictResolution) {
	target := filepath.Join(d.outputDir, filepath.FromSlash(localPath))

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return localPath, nil
	}

	dir, name := path.Split(localPath)
	ext := path.Ext(name)
	renamed := dir + strings.TrimSuffix(name, ext) + conflictSuffix + ext

	d.logger.Info("path conflict resolved",
		"url", sourceURL,
		"requested", localPath,
		"resolved", renamed,
	)

	return renamed, &model.ConflictResolution{
		SourceURL:     sourceURL,
		RequestedPath: localPath,
		ResolvedPath:  renamed,
	}
}

// write stores the asset under the output root, creating parent directories
// as needed. The write goes through a temp file in the same directory so a
// crash never leaves a truncated asset behind.
func (d *Downloader) write(localPath string, body []byte) error {
	target := filepath.Join(d.outputDir, filepath.FromSlash(localPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".asset-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// LocalPath maps an asset URL to its on-disk path relative to the output
// root: the URL path with the leading slash removed.
func LocalPath(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	return strings.Trim(u.Path, "/")
}
