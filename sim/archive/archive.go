// Package archive stores finished runs in SQLite so avalanche statistics
// from different configurations can be compared later.
package archive

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

	"github.com/soc-sim/sandpile/sim"
	"github.com/soc-sim/sandpile/sim/stats"
)

// ErrRunNotFound is returned when a run id is not in the archive.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    size INTEGER NOT NULL,
    threshold INTEGER NOT NULL,
    topology TEXT NOT NULL,
    iterations INTEGER NOT NULL,
    center_weight REAL NOT NULL,
    seed INTEGER NOT NULL,
    total_topplings INTEGER NOT NULL,
    max_avalanche INTEGER NOT NULL,
    config TEXT NOT NULL,  -- JSON
    report TEXT NOT NULL   -- JSON
);

-- One row per drop step
CREATE TABLE IF NOT EXISTS topplings (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    step INTEGER NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (run_id, step)
);
`

// Archive is a SQLite-backed store of finished runs.
type Archive struct {
	db   *sql.DB
	path string
}

// RunSummary is the listing view of an archived run.
type RunSummary struct {
	ID             int64
	CreatedAt      time.Time
	Size           int
	Threshold      int
	Topology       string
	Iterations     int
	CenterWeight   float64
	Seed           int64
	TotalTopplings int
	MaxAvalanche   int
}

// Open creates or opens the archive database at path.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}
	return &Archive{db: db, path: path}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Path returns the database file path.
func (a *Archive) Path() string { return a.path }

// SaveRun stores the configuration, per-step record and report of a run
// in one transaction and returns the new run id.
func (a *Archive) SaveRun(ctx context.Context, cfg sim.Config, record []int, report stats.Report) (int64, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to encode config: %w", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to encode report: %w", err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (created_at, size, threshold, topology, iterations, center_weight, seed,
			total_topplings, max_avalanche, config, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), cfg.Size, cfg.Threshold, string(cfg.Topology),
		cfg.Iterations, cfg.CenterWeight, cfg.Seed,
		report.TotalTopplings, report.MaxAvalanche, string(cfgJSON), string(reportJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO topplings (run_id, step, count) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare toppling insert: %w", err)
	}
	defer stmt.Close()
	for step, n := range record {
		if _, err := stmt.ExecContext(ctx, id, step, n); err != nil {
			return 0, fmt.Errorf("failed to insert step %d: %w", step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns all archived runs, newest first.
func (a *Archive) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, created_at, size, threshold, topology, iterations, center_weight, seed,
			total_topplings, max_avalanche
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Size, &r.Threshold, &r.Topology, &r.Iterations,
			&r.CenterWeight, &r.Seed, &r.TotalTopplings, &r.MaxAvalanche); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %d: bad created_at %q: %w", r.ID, created, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRecord returns the per-step toppling counts of a run.
func (a *Archive) LoadRecord(ctx context.Context, id int64) ([]int, error) {
	if err := a.exists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := a.db.QueryContext(ctx, `SELECT count FROM topplings WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query topplings: %w", err)
	}
	defer rows.Close()

	record := make([]int, 0)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan toppling count: %w", err)
		}
		record = append(record, n)
	}
	return record, rows.Err()
}

// LoadReport returns the stored report of a run.
func (a *Archive) LoadReport(ctx context.Context, id int64) (stats.Report, error) {
	var raw string
	err := a.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Report{}, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if err != nil {
		return stats.Report{}, fmt.Errorf("failed to load report: %w", err)
	}
	var report stats.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return stats.Report{}, fmt.Errorf("failed to decode report for run %d: %w", id, err)
	}
	return report, nil
}

func (a *Archive) exists(ctx context.Context, id int64) error {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	return nil
}
