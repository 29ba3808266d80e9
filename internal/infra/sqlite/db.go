// Package sqlite provides SQLite-based persistent storage for the reward
// engine. Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/rewards.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "rewards.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Point ledger, append-only; negative points are shop debits
		`CREATE TABLE IF NOT EXISTS point_grants (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			points         INTEGER NOT NULL,
			source         TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL DEFAULT 'general',
			date           INTEGER NOT NULL,
			reference_id   TEXT,
			goal_type      TEXT,
			is_goal_reward BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_grants_user_date ON point_grants(user_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_grants_goal ON point_grants(user_id, goal_type)`,

		// Cached balance/level view. total_points must equal the ledger sum.
		`CREATE TABLE IF NOT EXISTS user_progress (
			user_id      TEXT PRIMARY KEY,
			total_points INTEGER NOT NULL DEFAULT 0,
			level        INTEGER NOT NULL DEFAULT 1
		)`,

		// The uniqueness constraint carries the award-once invariant.
		`CREATE TABLE IF NOT EXISTS user_badges (
			user_id     TEXT NOT NULL,
			badge_id    TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			earned_at   INTEGER NOT NULL,
			PRIMARY KEY (user_id, badge_id)
		)`,

		// One goal bonus per (user, goal, calendar window).
		`CREATE TABLE IF NOT EXISTS goal_awards (
			user_id    TEXT NOT NULL,
			goal_type  TEXT NOT NULL,
			window_key TEXT NOT NULL,
			awarded_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, goal_type, window_key)
		)`,

		// Shop purchases, with the mystery box outcome resolved at purchase time.
		`CREATE TABLE IF NOT EXISTS purchases (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			item_id        TEXT NOT NULL,
			item_name      TEXT NOT NULL DEFAULT '',
			cost           INTEGER NOT NULL,
			type           TEXT NOT NULL,
			purchased_at   INTEGER NOT NULL,
			is_active      BOOLEAN NOT NULL DEFAULT 1,
			source         TEXT NOT NULL DEFAULT '',
			mystery_kind   TEXT,
			mystery_points INTEGER,
			mystery_item   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_user ON purchases(user_id, item_id)`,

		// Activity facts feeding badge and goal evaluation
		`CREATE TABLE IF NOT EXISTS books (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			title       TEXT NOT NULL DEFAULT '',
			added_at    INTEGER NOT NULL,
			finished    BOOLEAN NOT NULL DEFAULT 0,
			finished_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_books_user ON books(user_id, finished)`,
		`CREATE TABLE IF NOT EXISTS reading_sessions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			book_id          TEXT,
			date             INTEGER NOT NULL,
			pages_read       INTEGER NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON reading_sessions(user_id, date)`,
		`CREATE TABLE IF NOT EXISTS completed_tasks (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			task_name        TEXT NOT NULL DEFAULT '',
			completed_at     INTEGER NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			priority         TEXT NOT NULL DEFAULT 'medium',
			rating           INTEGER NOT NULL DEFAULT 3
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON completed_tasks(user_id, completed_at)`,
		`CREATE TABLE IF NOT EXISTS verified_quotes (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			verified_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_user ON verified_quotes(user_id)`,
	}

	for i, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
