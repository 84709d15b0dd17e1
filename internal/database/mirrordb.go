package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sitemirror/sitemirror/internal/model"
)

// MirrorDB provides SQLite-based storage for mirror run history.
// It manages connection pooling and provides methods for saving and
// querying past runs.
//
// Design decision: We use a single database file for all mirrored sites
// rather than one file per site. This simplifies cross-site history
// queries and backup/restore operations.
type MirrorDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures MirrorDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a MirrorDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*MirrorDB, error) {
	dbPath := filepath.Join(dbDir, "sitemirror.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; readers don't need more here either
	// because history queries are rare and small.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	mdb := &MirrorDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := mdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return mdb, nil
}

// Close closes the database connection.
func (mdb *MirrorDB) Close() error {
	return mdb.db.Close()
}

// Path returns the location of the database file.
func (mdb *MirrorDB) Path() string {
	return mdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (mdb *MirrorDB) createTables() error {
	schema := `
	-- Runs store one row per mirror pass with the full report as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		root_url TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		pages_discovered INTEGER NOT NULL,
		pages_succeeded INTEGER NOT NULL,
		pages_skipped INTEGER NOT NULL,
		assets_succeeded INTEGER NOT NULL,
		assets_skipped INTEGER NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root_url ON runs(root_url);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- Pages store one row per page outcome within a run
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		output_file_path TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run_id ON pages(run_id);

	-- Assets store one row per asset outcome within a run
	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		source_url TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		local_path TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_assets_run_id ON assets(run_id);
	`

	_, err := mdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport persists a completed run: the summary row plus one row per
// page and asset. Everything goes in one transaction so a crash never
// leaves a run half recorded.
func (mdb *MirrorDB) SaveReport(ctx context.Context, report *model.MirrorReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := mdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (run_id, root_url, output_dir, started_at, finished_at,
		pages_discovered, pages_succeeded, pages_skipped,
		assets_succeeded, assets_skipped, cancelled, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.RootURL,
		report.OutputDir,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.FinishedAt.UTC().Format(time.RFC3339),
		report.PagesDiscovered,
		report.PagesSucceeded(),
		report.PagesSkipped(),
		report.AssetsSucceeded(),
		report.AssetsSkipped(),
		boolToInt(report.Cancelled),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, p := range report.Pages {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO pages (run_id, url, status, reason, output_file_path)
		VALUES (?, ?, ?, ?, ?)`,
			report.RunID, p.URL, string(p.Status), p.Reason, p.OutputFilePath,
		); err != nil {
			return fmt.Errorf("failed to insert page row: %w", err)
		}
	}

	for _, a := range report.Assets {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO assets (run_id, source_url, status, reason, local_path)
		VALUES (?, ?, ?, ?, ?)`,
			report.RunID, a.SourceURL, string(a.Status), a.Reason, a.LocalPath,
		); err != nil {
			return fmt.Errorf("failed to insert asset row: %w", err)
		}
	}

	return tx.Commit()
}

// RunSummary describes one stored run without the full report payload.
type RunSummary struct {
	RunID           string
	RootURL         string
	OutputDir       string
	StartedAt       time.Time
	FinishedAt      time.Time
	PagesDiscovered int
	PagesSucceeded  int
	PagesSkipped    int
	AssetsSucceeded int
	AssetsSkipped   int
	Cancelled       bool
}

// ListRuns returns stored run summaries, most recent first. When rootURL is
// non-empty, only runs for that site are returned.
func (mdb *MirrorDB) ListRuns(ctx context.Context, rootURL string, limit int) ([]RunSummary, error) {
	query := `
	SELECT run_id, root_url, output_dir, started_at, finished_at,
		pages_discovered, pages_succeeded, pages_skipped,
		assets_succeeded, assets_skipped, cancelled
	FROM runs`
	args := []any{}
	if rootURL != "" {
		query += " WHERE root_url = ?"
		args = append(args, rootURL)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := mdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var (
			s                    RunSummary
			startedAt, finishedAt string
			cancelled            int
		)
		if err := rows.Scan(
			&s.RunID, &s.RootURL, &s.OutputDir, &startedAt, &finishedAt,
			&s.PagesDiscovered, &s.PagesSucceeded, &s.PagesSkipped,
			&s.AssetsSucceeded, &s.AssetsSkipped, &cancelled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		s.StartedAt = parseTimestamp(startedAt)
		s.FinishedAt = parseTimestamp(finishedAt)
		s.Cancelled = cancelled != 0
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetReport returns the full stored report for a run ID, or nil when the
// run is unknown.
func (mdb *MirrorDB) GetReport(ctx context.Context, runID string) (*model.MirrorReport, error) {
	var reportJSON string
	err := mdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM runs WHERE run_id = ?`, runID,
	).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.MirrorReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse stored report: %w", err)
	}
	return &report, nil
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats covers the timestamp shapes SQLite may hand back
// depending on how the value was stored.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
