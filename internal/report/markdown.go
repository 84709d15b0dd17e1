package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/sitemirror/sitemirror/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.MirrorReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeConflicts(md, report)
	w.writeSkippedItems(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.MirrorReport) {
	md.H1("Site Mirror Report")
	md.PlainText("")

	status := "Complete"
	if report.Cancelled {
		status = "Cancelled (partial results)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.RootURL + "`"},
			{"Output Directory", "`" + report.OutputDir + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().String()},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeSummary writes the page and asset counters.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.MirrorReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages discovered", strconv.Itoa(report.PagesDiscovered)},
			{"Pages mirrored", strconv.Itoa(report.PagesSucceeded())},
			{"Pages skipped", strconv.Itoa(report.PagesSkipped())},
			{"Assets downloaded", strconv.Itoa(report.AssetsSucceeded())},
			{"Assets skipped", strconv.Itoa(report.AssetsSkipped())},
		},
	})
	md.PlainText("")
}

// writeConflicts lists resolved page/asset path collisions.
func (w *MarkdownWriter) writeConflicts(md *markdown.Markdown, report *model.MirrorReport) {
	if len(report.Conflicts) == 0 {
		return
	}

	md.H2("Resolved Path Conflicts")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Conflicts))
	for _, c := range report.Conflicts {
		rows = append(rows, []string{"`" + c.RequestedPath + "`", "`" + c.ResolvedPath + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Requested Path", "Resolved Path"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSkippedItems lists every skipped page and asset with its reason.
func (w *MarkdownWriter) writeSkippedItems(md *markdown.Markdown, report *model.MirrorReport) {
	var rows [][]string
	for _, p := range report.Pages {
		if p.Status == model.StatusSkipped {
			rows = append(rows, []string{"page", "`" + p.URL + "`", p.Reason})
		}
	}
	for _, a := range report.Assets {
		if a.Status == model.StatusSkipped {
			rows = append(rows, []string{"asset", "`" + a.SourceURL + "`", a.Reason})
		}
	}
	if len(rows) == 0 {
		return
	}

	md.H2("Skipped Items")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}
