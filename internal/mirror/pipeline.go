package mirror

import (
	"context"
	"log/slog"

	"github.com/sitemirror/sitemirror/internal/assets"
	"github.com/sitemirror/sitemirror/internal/model"
	"github.com/sitemirror/sitemirror/internal/scope"
)

// run carries the state of one mirror pass through the pipeline.
// It is created by the orchestrator and owned by it; steps receive it by
// reference and mutate it in order.
//
// Design decision: Crawl state lives in one explicit struct instead of
// process-wide variables so that concurrent runs in the same process can
// never interfere, and so tests can assemble a run from parts.
type run struct {
	// scope is the immutable crawl scope.
	scope *scope.Scope

	// outputDir is the prepared output directory.
	outputDir string

	// pages is the discovery set, keyed and ordered by normalized URL.
	pages []string

	// pageSet mirrors pages for membership checks.
	pageSet map[string]struct{}

	// registry is the shared asset URL set.
	registry *assets.Registry

	// report accumulates all outcomes.
	report *model.MirrorReport

	// progress receives incremental updates. May be nil.
	progress model.ProgressFunc
}

// isKnownPage reports whether a normalized URL is in the discovery set.
func (r *run) isKnownPage(normalizedURL string) bool {
	_, ok := r.pageSet[normalizedURL]
	return ok
}

// emit invokes the progress callback if one is set.
func (r *run) emit(p model.Progress) {
	if r.progress != nil {
		r.progress(p)
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each mutating the shared run state.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features
type Step interface {
	// Do executes the pipeline step. Returns an error only for failures
	// that make continuing pointless; per-item failures are recorded in
	// the run's report and return nil.
	Do(ctx context.Context, r *run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// executeSteps runs the steps in order, honoring cancellation between
// steps. Cancellation marks the report instead of discarding it: a partial
// mirror is still useful.
func executeSteps(ctx context.Context, logger *slog.Logger, r *run, steps []Step) error {
	for _, step := range steps {
		select {
		case <-ctx.Done():
			logger.Warn("run cancelled", "step", step.Name(), "reason", ctx.Err())
			r.report.Cancelled = true
			return nil
		default:
		}

		logger.Info("executing step", "step", step.Name(), "site", r.report.RootURL)

		if err := step.Do(ctx, r); err != nil {
			logger.Error("step failed", "step", step.Name(), "error", err)
			return err
		}

		logger.Debug("step completed", "step", step.Name())
	}
	return nil
}
