package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sitemirror/sitemirror/internal/model"
)

// ProgressHandler wraps an slog.Handler and forwards each record as a log
// line to a progress callback in addition to normal handling.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components keep logging normally and stay unaware of the callback
type ProgressHandler struct {
	// handler is the underlying slog handler that receives every record.
	handler slog.Handler

	// progress receives a rendered copy of each record. May be nil, in
	// which case the wrapper is a passthrough.
	progress model.ProgressFunc
}

// NewProgressHandler creates a ProgressHandler around the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewProgressHandler(handler slog.Handler, progress model.ProgressFunc) *ProgressHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ProgressHandler{handler: handler, progress: progress}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *ProgressHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle forwards the record to the progress callback and the underlying
// handler.
func (h *ProgressHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.progress != nil {
		h.progress(model.Progress{Log: renderRecord(r)})
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *ProgressHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ProgressHandler{handler: h.handler.WithAttrs(attrs), progress: h.progress}
}

// WithGroup returns a new handler with the given group name.
func (h *ProgressHandler) WithGroup(name string) slog.Handler {
	return &ProgressHandler{handler: h.handler.WithGroup(name), progress: h.progress}
}

// renderRecord flattens a record into a single log line for the callback.
func renderRecord(r slog.Record) string {
	var sb strings.Builder
	sb.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		sb.WriteString(fmt.Sprintf(" %s=%v", a.Key, a.Value))
		return true
	})
	return sb.String()
}

// NewLogger creates a *slog.Logger writing text output to w.
// The default level is Warn so normal runs stay quiet next to the progress
// output; verbose drops to Debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
