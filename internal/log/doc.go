// Package log provides logging for mirror runs, built on top of the
// standard slog package.
//
// This package extends slog with:
//   - A ProgressHandler that mirrors log lines into the caller's progress
//     callback, so embedding applications see the same messages as the
//     terminal without scraping stderr
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	slog.SetDefault(logger)
//
//	// Forward run messages into a progress callback as well:
//	logger = slog.New(log.NewProgressHandler(logger.Handler(), progressFn))
package log
