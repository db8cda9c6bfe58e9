// Package ledger records a history of generation runs to a local
// SQLite database: seed, dimensions, elapsed time, output paths, and
// an invariant-check summary per run. Grounded directly on
// persistence.DB's Open/migrate/SaveX shape, generalized from a
// mutable game-state store (agents, settlements, events tables
// replaced wholesale on every save) into an append-only run history
// (one INSERT per generation, never replaced).
package ledger

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection holding the run history table.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path, matching
// persistence.Open's WAL + busy-timeout connection string.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate ledger db: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		plates INTEGER NOT NULL,
		water_frac REAL NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		out_png TEXT NOT NULL,
		out_ir TEXT NOT NULL,
		invariants_checked INTEGER NOT NULL,
		invariants_failed INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run is one recorded generation invocation.
type Run struct {
	ID                string
	Seed              uint64
	Width, Height     int
	Plates            int
	WaterFrac         float64
	ElapsedMillis     int64
	OutPNG, OutIR     string
	InvariantsChecked int
	InvariantsFailed  int
	CreatedAt         string // set by Recent; zero value on a Run passed to Record
}

// NewRunID mints a fresh run identifier, grounded on
// spec.md §6's IR "params" block cross-reference need.
func NewRunID() string {
	return uuid.NewString()
}

// Record inserts one run into the history table. Ledger writes are
// best-effort tooling (SPEC_FULL.md §9): callers log and continue on
// failure rather than failing the whole generation run.
func (db *DB) Record(run Run) error {
	_, err := db.conn.Exec(`
		INSERT INTO runs
		(id, seed, width, height, plates, water_frac, elapsed_ms,
		 out_png, out_ir, invariants_checked, invariants_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.Width, run.Height, run.Plates, run.WaterFrac,
		run.ElapsedMillis, run.OutPNG, run.OutIR,
		run.InvariantsChecked, run.InvariantsFailed,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	slog.Info("run recorded to ledger", "run_id", run.ID)
	return nil
}

// Recent returns the most recently recorded runs, newest first.
func (db *DB) Recent(limit int) ([]Run, error) {
	var rows []struct {
		ID                string  `db:"id"`
		Seed              int64   `db:"seed"`
		Width             int     `db:"width"`
		Height            int     `db:"height"`
		Plates            int     `db:"plates"`
		WaterFrac         float64 `db:"water_frac"`
		ElapsedMillis     int64   `db:"elapsed_ms"`
		OutPNG            string  `db:"out_png"`
		OutIR             string  `db:"out_ir"`
		InvariantsChecked int     `db:"invariants_checked"`
		InvariantsFailed  int     `db:"invariants_failed"`
		CreatedAt         string  `db:"created_at"`
	}
	err := db.conn.Select(&rows,
		"SELECT id, seed, width, height, plates, water_frac, elapsed_ms, out_png, out_ir, invariants_checked, invariants_failed, created_at FROM runs ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}

	runs := make([]Run, len(rows))
	for i, r := range rows {
		runs[i] = Run{
			ID:                r.ID,
			Seed:              uint64(r.Seed),
			Width:             r.Width,
			Height:            r.Height,
			Plates:            r.Plates,
			WaterFrac:         r.WaterFrac,
			ElapsedMillis:     r.ElapsedMillis,
			OutPNG:            r.OutPNG,
			OutIR:             r.OutIR,
			InvariantsChecked: r.InvariantsChecked,
			InvariantsFailed:  r.InvariantsFailed,
			CreatedAt:         r.CreatedAt,
		}
	}
	return runs, nil
}
