package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// ErrNotFound marks lookups for ids that no longer exist. Readers that
// follow dependency references treat it as absence, not failure.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS projects (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		category         TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'locked',
		level            INTEGER NOT NULL DEFAULT 1,
		pos_x            REAL NOT NULL DEFAULT 100,
		pos_y            REAL NOT NULL DEFAULT 100,
		dependencies     TEXT NOT NULL DEFAULT '[]',
		tech_stack       TEXT NOT NULL DEFAULT '[]',
		complexity       INTEGER NOT NULL DEFAULT 1,
		priority         TEXT NOT NULL DEFAULT 'medium',
		checklist        TEXT NOT NULL DEFAULT '[]',
		resources        TEXT NOT NULL DEFAULT '[]',
		time_spent_hours REAL NOT NULL DEFAULT 0,
		github_url       TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		completed_at     TEXT,
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS work_sessions (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start_time       INTEGER NOT NULL,
		end_time         INTEGER,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		type             TEXT NOT NULL DEFAULT 'focus',
		notes            TEXT NOT NULL DEFAULT '',
		task_id          TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_project ON work_sessions(project_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_start   ON work_sessions(start_time);

	CREATE TABLE IF NOT EXISTS profile (
		id              INTEGER PRIMARY KEY CHECK (id = 1),
		xp              INTEGER NOT NULL DEFAULT 0,
		level           INTEGER NOT NULL DEFAULT 1,
		unlocked_badges TEXT NOT NULL DEFAULT '[]',
		updated_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	INSERT OR IGNORE INTO profile (id) VALUES (1);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('pomodoro_duration', '1500'),
		('break_duration',    '300'),
		('duration_goal',     '3600'),
		('countdown',         '0');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/roadmap/roadmap.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "roadmap", "roadmap.db"), nil
}
