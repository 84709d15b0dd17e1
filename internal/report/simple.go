package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sitemirror/sitemirror/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-item listings in addition to the summary.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page and per-asset detail.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.MirrorReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeConflicts(&sb, report)
	if w.verbose {
		w.writeSkippedItems(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.MirrorReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SITE MIRROR REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:        %s\n", report.RootURL))
	sb.WriteString(fmt.Sprintf("Output:      %s\n", report.OutputDir))
	sb.WriteString(fmt.Sprintf("Started:     %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:    %s\n", report.Duration().Round(time.Millisecond)))

	if report.Cancelled {
		sb.WriteString("Status:      CANCELLED (partial results)\n")
	} else {
		sb.WriteString("Status:      Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the page and asset counters.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.MirrorReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Pages discovered:  %d\n", report.PagesDiscovered))
	sb.WriteString(fmt.Sprintf("  Pages mirrored:    %d\n", report.PagesSucceeded()))
	sb.WriteString(fmt.Sprintf("  Pages skipped:     %d\n", report.PagesSkipped()))
	sb.WriteString(fmt.Sprintf("  Assets downloaded: %d\n", report.AssetsSucceeded()))
	sb.WriteString(fmt.Sprintf("  Assets skipped:    %d\n", report.AssetsSkipped()))
	sb.WriteString("\n")
}

// writeConflicts lists resolved page/asset path collisions.
func (w *SimpleWriter) writeConflicts(sb *strings.Builder, report *model.MirrorReport) {
	if len(report.Conflicts) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESOLVED PATH CONFLICTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Conflicts {
		sb.WriteString(fmt.Sprintf("  %s -> %s\n", c.RequestedPath, c.ResolvedPath))
	}
	sb.WriteString("\n")
}

// writeSkippedItems lists every skipped page and asset with its reason.
func (w *SimpleWriter) writeSkippedItems(sb *strings.Builder, report *model.MirrorReport) {
	var lines []string
	for _, p := range report.Pages {
		if p.Status == model.StatusSkipped {
			lines = append(lines, fmt.Sprintf("  page  %s: %s", p.URL, p.Reason))
		}
	}
	for _, a := range report.Assets {
		if a.Status == model.StatusSkipped {
			lines = append(lines, fmt.Sprintf("  asset %s: %s", a.SourceURL, a.Reason))
		}
	}
	if len(lines) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SKIPPED ITEMS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sitemirror\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
