// Package store persists scan results into a SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// migrations holds the schema statements, applied in order. Statements
// must be idempotent (CREATE ... IF NOT EXISTS) since OpenDB re-runs all
// of them on every open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		created_at    TEXT NOT NULL,
		files_scanned INTEGER NOT NULL,
		files_failed  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id                 TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user                   TEXT NOT NULL,
		date                   TEXT NOT NULL,
		start_time             TEXT NOT NULL,
		end_time               TEXT,
		duration_seconds       REAL NOT NULL,
		duration_minutes       REAL NOT NULL,
		images                 INTEGER NOT NULL,
		images_processed       INTEGER NOT NULL,
		total_records          INTEGER NOT NULL,
		update_count           INTEGER NOT NULL,
		character_count        INTEGER NOT NULL,
		total_ocr_seconds      REAL NOT NULL,
		total_name_ocr_seconds REAL NOT NULL,
		log_file               TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ocr_attempts (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id                 TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user                   TEXT NOT NULL,
		date                   TEXT NOT NULL,
		image_id               TEXT NOT NULL,
		image_number           TEXT NOT NULL,
		clipboard_count        INTEGER NOT NULL,
		name_clipboard_count   INTEGER NOT NULL,
		duration_seconds       REAL NOT NULL,
		total_duration_seconds REAL NOT NULL,
		start_time             TEXT,
		end_time               TEXT,
		text                   TEXT NOT NULL DEFAULT '',
		is_name_attempt        INTEGER NOT NULL,
		log_file               TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ocr_attempts_detailed (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user             TEXT NOT NULL,
		date             TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT NOT NULL,
		duration_seconds REAL NOT NULL,
		duration_minutes REAL NOT NULL,
		original_text    TEXT NOT NULL DEFAULT '',
		clipboard_text   TEXT NOT NULL DEFAULT '',
		confirmed        INTEGER NOT NULL,
		log_file         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS time_gaps (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user             TEXT,
		date             TEXT,
		start_time       TEXT NOT NULL,
		end_time         TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		log_file         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS break_intervals (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user             TEXT NOT NULL,
		date             TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		log_file         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS field_edits (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user     TEXT NOT NULL,
		date     TEXT NOT NULL,
		field    TEXT NOT NULL,
		count    INTEGER NOT NULL,
		log_file TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS shortcuts (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user     TEXT,
		date     TEXT,
		key      TEXT NOT NULL,
		count    INTEGER NOT NULL,
		log_file TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS image_records (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		user     TEXT,
		date     TEXT,
		image_id TEXT NOT NULL,
		records  INTEGER NOT NULL,
		log_file TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON sessions(user, date)`,
	`CREATE INDEX IF NOT EXISTS idx_field_edits_user_date ON field_edits(user, date)`,
}

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database.
// Sets WAL mode, enables foreign keys, and applies the schema.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
