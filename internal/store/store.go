package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store provides access to the problem catalog and solve history.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema if missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS problems (
		problem_id  TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		difficulty  TEXT NOT NULL CHECK (difficulty IN ('Easy', 'Medium', 'Hard')),
		category    TEXT NOT NULL DEFAULT '',
		tags        TEXT,
		test_cases  TEXT,
		solution    TEXT NOT NULL DEFAULT '',
		source      TEXT NOT NULL DEFAULT 'ai',
		url         TEXT NOT NULL DEFAULT '',
		is_solved   INTEGER NOT NULL DEFAULT 0,
		solved_at   TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_problems_difficulty ON problems(difficulty);
	CREATE INDEX IF NOT EXISTS idx_problems_solved ON problems(is_solved);

	CREATE TABLE IF NOT EXISTS attempts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		problem_id TEXT NOT NULL REFERENCES problems(problem_id),
		action     TEXT NOT NULL CHECK (action IN ('solved', 'unsolved')),
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_problem ON attempts(problem_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CODEDRILL_DB environment variable
// 2. $XDG_DATA_HOME/codedrill/codedrill.db
// 3. ~/.local/share/codedrill/codedrill.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CODEDRILL_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "codedrill", "codedrill.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
