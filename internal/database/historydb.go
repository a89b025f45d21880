package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/viewaudit/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "viewaudit.db"

// RunKind distinguishes audit runs from snapshot runs.
type RunKind string

const (
	// KindAudit is a Lighthouse audit run.
	KindAudit RunKind = "audit"
	// KindSnapshot is an HTML snapshot run.
	KindSnapshot RunKind = "snapshot"
)

// HistoryDB stores run history in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// wrapping ErrDatabaseMissing is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseMissing, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per audit or snapshot run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		base_url TEXT NOT NULL,
		selection TEXT NOT NULL,
		started_at TEXT NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		entries INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind, started_at);

	-- Audit rows; scores is a JSON object keyed by category id
	CREATE TABLE IF NOT EXISTS audit_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		view TEXT NOT NULL,
		form_factor TEXT NOT NULL,
		requested TEXT NOT NULL,
		scores TEXT NOT NULL,
		artifact TEXT,
		final_url TEXT,
		error TEXT,
		audited_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_rows_run ON audit_rows(run_id);

	-- Saved pages of snapshot runs
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		view TEXT NOT NULL,
		url TEXT,
		path TEXT,
		title TEXT,
		sha256 TEXT,
		size INTEGER,
		has_login_form INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_view ON snapshots(view);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Run describes a stored run.
type Run struct {
	ID        int64
	Kind      RunKind
	BaseURL   string
	Selection string
	StartedAt time.Time
	Cancelled bool
	// Entries is the number of audit rows or snapshots.
	Entries int
	// Failed is the number of failed entries.
	Failed int
}

// AuditRun is an audit run with its rows.
type AuditRun struct {
	Run
	Rows []model.Row
}

// SnapshotRecord is one saved page of a snapshot run.
type SnapshotRecord struct {
	View         string
	URL          string
	Path         string
	Title        string
	SHA256       string
	Size         int
	HasLoginForm bool
	Error        string
}

// SnapshotRun is a snapshot run with its pages.
type SnapshotRun struct {
	Run
	Snapshots []SnapshotRecord
}

// SaveAuditRun stores an audit run and its rows in one transaction and
// returns the new run id.
func (h *HistoryDB) SaveAuditRun(ctx context.Context, run *AuditRun) (int64, error) {
	run.Kind = KindAudit
	run.Entries = len(run.Rows)
	run.Failed = 0
	for _, r := range run.Rows {
		if r.Failed() {
			run.Failed++
		}
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	id, err := insertRun(ctx, tx, &run.Run)
	if err != nil {
		return 0, err
	}

	query := `
	INSERT INTO audit_rows (run_id, position, view, form_factor, requested, scores, artifact, final_url, error, audited_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, r := range run.Rows {
		requested, err := json.Marshal(r.Requested)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize categories: %w", err)
		}
		scores, err := json.Marshal(r.Scores)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize scores: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			id,
			i,
			r.View,
			string(r.FormFactor),
			string(requested),
			string(scores),
			r.Artifact,
			r.FinalURL,
			r.Error,
			formatTimestamp(r.AuditedAt),
		); err != nil {
			return 0, fmt.Errorf("failed to insert audit row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit audit run: %w", err)
	}
	run.ID = id
	return id, nil
}

// SaveSnapshotRun stores a snapshot run and its pages in one transaction.
func (h *HistoryDB) SaveSnapshotRun(ctx context.Context, run *SnapshotRun) (int64, error) {
	run.Kind = KindSnapshot
	run.Entries = len(run.Snapshots)
	run.Failed = 0
	for _, s := range run.Snapshots {
		if s.Error != "" {
			run.Failed++
		}
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	id, err := insertRun(ctx, tx, &run.Run)
	if err != nil {
		return 0, err
	}

	query := `
	INSERT INTO snapshots (run_id, view, url, path, title, sha256, size, has_login_form, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, s := range run.Snapshots {
		if _, err := tx.ExecContext(ctx, query,
			id, s.View, s.URL, s.Path, s.Title, s.SHA256, s.Size, s.HasLoginForm, s.Error,
		); err != nil {
			return 0, fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot run: %w", err)
	}
	run.ID = id
	return id, nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run *Run) (int64, error) {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (kind, base_url, selection, started_at, cancelled, entries, failed)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		string(run.Kind),
		run.BaseURL,
		run.Selection,
		formatTimestamp(run.StartedAt),
		run.Cancelled,
		run.Entries,
		run.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// ListRuns returns the runs of kind, newest first. A limit of zero or less
// returns all of them.
func (h *HistoryDB) ListRuns(ctx context.Context, kind RunKind, limit int) ([]Run, error) {
	query := `
	SELECT id, kind, base_url, selection, started_at, cancelled, entries, failed
	FROM runs
	WHERE kind = ?
	ORDER BY started_at DESC, id DESC
	`
	args := []any{string(kind)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with id, or an error wrapping ErrNotFound.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := h.db.QueryRowContext(ctx, `
	SELECT id, kind, base_url, selection, started_at, cancelled, entries, failed
	FROM runs
	WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return run, err
}

// GetAuditRun returns an audit run with its rows in run order.
func (h *HistoryDB) GetAuditRun(ctx context.Context, id int64) (*AuditRun, error) {
	run, err := h.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Kind != KindAudit {
		return nil, fmt.Errorf("%w: run %d is a %s run", ErrNotFound, id, run.Kind)
	}

	rows, err := h.db.QueryContext(ctx, `
	SELECT view, form_factor, requested, scores, artifact, final_url, error, audited_at
	FROM audit_rows
	WHERE run_id = ?
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit rows: %w", err)
	}
	defer rows.Close()

	result := &AuditRun{Run: *run}
	for rows.Next() {
		var (
			r                 model.Row
			formFactor        string
			requested, scores string
			artifact, final   sql.NullString
			errText, audited  sql.NullString
		)
		if err := rows.Scan(&r.View, &formFactor, &requested, &scores, &artifact, &final, &errText, &audited); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		r.FormFactor = model.FormFactor(formFactor)
		if err := json.Unmarshal([]byte(requested), &r.Requested); err != nil {
			return nil, fmt.Errorf("failed to parse categories: %w", err)
		}
		if err := json.Unmarshal([]byte(scores), &r.Scores); err != nil {
			return nil, fmt.Errorf("failed to parse scores: %w", err)
		}
		r.Artifact = artifact.String
		r.FinalURL = final.String
		r.Error = errText.String
		r.AuditedAt = parseTimestamp(audited.String)
		result.Rows = append(result.Rows, r)
	}
	return result, rows.Err()
}

// LatestAuditRuns returns up to n audit runs with rows, newest first.
func (h *HistoryDB) LatestAuditRuns(ctx context.Context, n int) ([]*AuditRun, error) {
	runs, err := h.ListRuns(ctx, KindAudit, n)
	if err != nil {
		return nil, err
	}
	out := make([]*AuditRun, 0, len(runs))
	for _, r := range runs {
		ar, err := h.GetAuditRun(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ar)
	}
	return out, nil
}

// LatestSnapshot returns the most recent successful snapshot of view taken
// against baseURL, or nil when there is none.
func (h *HistoryDB) LatestSnapshot(ctx context.Context, baseURL, view string) (*SnapshotRecord, error) {
	var (
		s                    SnapshotRecord
		url, path, title, hs sql.NullString
		size                 sql.NullInt64
	)
	err := h.db.QueryRowContext(ctx, `
	SELECT s.view, s.url, s.path, s.title, s.sha256, s.size, s.has_login_form
	FROM snapshots s JOIN runs r ON r.id = s.run_id
	WHERE r.base_url = ? AND s.view = ? AND (s.error IS NULL OR s.error = '')
	ORDER BY r.started_at DESC, s.id DESC
	LIMIT 1
	`, baseURL, view).Scan(&s.View, &url, &path, &title, &hs, &size, &s.HasLoginForm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	s.URL = url.String
	s.Path = path.String
	s.Title = title.String
	s.SHA256 = hs.String
	s.Size = int(size.Int64)
	return &s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run       Run
		kind      string
		startedAt string
	)
	if err := s.Scan(&run.ID, &kind, &run.BaseURL, &run.Selection, &startedAt, &run.Cancelled, &run.Entries, &run.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Kind = RunKind(kind)
	run.StartedAt = parseTimestamp(startedAt)
	return &run, nil
}

// formatTimestamp stores times in UTC with nanoseconds so ordering by the
// text column matches ordering by time.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02T15:04:05.000000000Z",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
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
