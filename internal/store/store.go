// Package store implements the persistent project-activity store.
//
// It keeps sessions, steps, step details, metrics, insights and timeline
// events in a single SQLite file. Semi-structured fields are stored as
// JSON text and timestamps as fixed-width RFC 3339 strings.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// newID is a package-level var so tests can produce deterministic ids.
var newID = func() string { return uuid.NewString() }

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir string
	DBFile  string
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".projtrack"),
		DBFile:  "tracker.db",
	}
}

// Path returns the database file location.
func (c Config) Path() string {
	name := c.DBFile
	if name == "" {
		name = "tracker.db"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed persistence layer.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type storeHooks struct {
	exec func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error)
}

func (s *Store) execHook(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(ctx, db, query, args...)
	}
	return db.ExecContext(ctx, query, args...)
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	path := cfg.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// PRAGMAs are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string {
	return s.cfg.Path()
}

// Close closes the underlying database connection. The store must not be
// used afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS project_sessions (
			id           TEXT PRIMARY KEY,
			project_name TEXT    NOT NULL,
			description  TEXT,
			start_time   TEXT    NOT NULL,
			end_time     TEXT,
			status       TEXT    NOT NULL,
			total_steps  INTEGER NOT NULL DEFAULT 0,
			current_step INTEGER NOT NULL DEFAULT 0,
			ai_model     TEXT,
			metadata     TEXT,
			created_at   TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS project_steps (
			id            TEXT PRIMARY KEY,
			session_id    TEXT    NOT NULL,
			step_number   INTEGER NOT NULL,
			step_type     TEXT    NOT NULL,
			title         TEXT    NOT NULL,
			description   TEXT,
			start_time    TEXT    NOT NULL,
			end_time      TEXT,
			status        TEXT    NOT NULL,
			input         TEXT,
			output        TEXT,
			error_message TEXT,
			duration      INTEGER,
			metadata      TEXT,
			created_at    TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES project_sessions (id)
		);

		CREATE TABLE IF NOT EXISTS step_details (
			id          TEXT PRIMARY KEY,
			step_id     TEXT NOT NULL,
			detail_type TEXT NOT NULL,
			timestamp   TEXT NOT NULL,
			content     TEXT NOT NULL,
			severity    TEXT,
			metadata    TEXT,
			created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (step_id) REFERENCES project_steps (id)
		);

		CREATE TABLE IF NOT EXISTS project_metrics (
			session_id         TEXT PRIMARY KEY,
			total_files        INTEGER NOT NULL DEFAULT 0,
			files_created      INTEGER NOT NULL DEFAULT 0,
			files_modified     INTEGER NOT NULL DEFAULT 0,
			files_deleted      INTEGER NOT NULL DEFAULT 0,
			lines_of_code      INTEGER NOT NULL DEFAULT 0,
			commands_executed  INTEGER NOT NULL DEFAULT 0,
			errors_encountered INTEGER NOT NULL DEFAULT 0,
			time_spent         INTEGER NOT NULL DEFAULT 0,
			complexity         TEXT    NOT NULL DEFAULT 'low',
			efficiency         INTEGER NOT NULL DEFAULT 0,
			created_at         TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at         TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES project_sessions (id)
		);

		CREATE TABLE IF NOT EXISTS ai_insights (
			id           TEXT PRIMARY KEY,
			session_id   TEXT NOT NULL,
			timestamp    TEXT NOT NULL,
			insight_type TEXT NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT,
			confidence   INTEGER,
			metadata     TEXT,
			created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES project_sessions (id)
		);

		-- related_step_id is a soft link: no foreign key.
		CREATE TABLE IF NOT EXISTS timeline_events (
			id              TEXT PRIMARY KEY,
			session_id      TEXT NOT NULL,
			timestamp       TEXT NOT NULL,
			event_type      TEXT NOT NULL,
			title           TEXT NOT NULL,
			description     TEXT,
			related_step_id TEXT,
			created_at      TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES project_sessions (id)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_start    ON project_sessions (start_time DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_status   ON project_sessions (status);
		CREATE INDEX IF NOT EXISTS idx_steps_session     ON project_steps (session_id, step_number);
		CREATE INDEX IF NOT EXISTS idx_details_step      ON step_details (step_id);
		CREATE INDEX IF NOT EXISTS idx_insights_session  ON ai_insights (session_id);
		CREATE INDEX IF NOT EXISTS idx_timeline_session  ON timeline_events (session_id, timestamp);
	`
	_, err := s.execHook(ctx, s.db, schema)
	return err
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// patch accumulates "column = ?" assignments for partial updates.
type patch struct {
	fields []string
	args   []any
}

func (p *patch) set(column string, value any) {
	p.fields = append(p.fields, column+" = ?")
	p.args = append(p.args, value)
}

func (p *patch) empty() bool { return len(p.fields) == 0 }

// apply issues UPDATE table SET ... WHERE key = id. An empty patch issues
// no statement.
func (s *Store) apply(ctx context.Context, table, key, id string, p *patch, extra ...string) error {
	if p.empty() {
		return nil
	}
	fields := append(p.fields, extra...)
	query := "UPDATE " + table + " SET " + strings.Join(fields, ", ") + " WHERE " + key + " = ?"
	args := append(p.args, id)
	_, err := s.execHook(ctx, s.db, query, args...)
	return err
}
