package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Run is one archived report run.
type Run struct {
	ID          string
	Source      string
	GeneratedAt time.Time
	NetIncome   string
	SheetCount  int
	IssueCount  int
	Lines       [][]string // the summary table
	Integrity   []IntegrityRecord
}

// IntegrityRecord is an archived anomaly.
type IntegrityRecord struct {
	Sheet  string
	Kind   string
	Row    int
	Value  string
	Amount string
}

// RunSummary is a row of the run history listing.
type RunSummary struct {
	ID          string
	Source      string
	GeneratedAt time.Time
	NetIncome   string
	SheetCount  int
	IssueCount  int
}

// SQLiteRepository archives completed runs. It never feeds a run back into
// aggregation.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Run archive ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveRun stores run in one transaction and returns its id. An empty
// run.ID gets a fresh UUID.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.GeneratedAt.IsZero() {
		run.GeneratedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, generated_at, net_income, sheet_count, issue_count) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.GeneratedAt.UTC(), run.NetIncome, run.SheetCount, run.IssueCount)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, line := range run.Lines {
		cells, err := json.Marshal(line)
		if err != nil {
			return "", fmt.Errorf("encode line %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_lines (run_id, position, cells) VALUES (?, ?, ?)`,
			run.ID, i, string(cells)); err != nil {
			return "", fmt.Errorf("insert line %d: %w", i, err)
		}
	}

	for i, rec := range run.Integrity {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_integrity (run_id, position, sheet, kind, row_number, value, amount) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, rec.Sheet, rec.Kind, rec.Row, rec.Value, rec.Amount); err != nil {
			return "", fmt.Errorf("insert integrity record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}

	slog.InfoContext(ctx, "Run archived to SQLite",
		"id", run.ID,
		"source", run.Source,
		"lines", len(run.Lines),
		"integrity_records", len(run.Integrity))

	return run.ID, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	q := `SELECT id, source, generated_at, net_income, sheet_count, issue_count FROM runs ORDER BY generated_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.Source, &s.GeneratedAt, &s.NetIncome, &s.SheetCount, &s.IssueCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRun loads a run with its lines and integrity records.
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (Run, error) {
	var run Run
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, generated_at, net_income, sheet_count, issue_count FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Source, &run.GeneratedAt, &run.NetIncome, &run.SheetCount, &run.IssueCount)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}

	lines, err := r.db.QueryContext(ctx, `SELECT cells FROM run_lines WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return Run{}, fmt.Errorf("get run lines: %w", err)
	}
	defer lines.Close()
	for lines.Next() {
		var raw string
		if err := lines.Scan(&raw); err != nil {
			return Run{}, fmt.Errorf("scan line: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return Run{}, fmt.Errorf("decode line: %w", err)
		}
		run.Lines = append(run.Lines, cells)
	}
	if err := lines.Err(); err != nil {
		return Run{}, err
	}

	recs, err := r.db.QueryContext(ctx,
		`SELECT sheet, kind, row_number, value, amount FROM run_integrity WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return Run{}, fmt.Errorf("get run integrity: %w", err)
	}
	defer recs.Close()
	for recs.Next() {
		var rec IntegrityRecord
		if err := recs.Scan(&rec.Sheet, &rec.Kind, &rec.Row, &rec.Value, &rec.Amount); err != nil {
			return Run{}, fmt.Errorf("scan integrity record: %w", err)
		}
		run.Integrity = append(run.Integrity, rec)
	}
	return run, recs.Err()
}
