// Package store implements SQLite persistence for the promptpilot
// preference ledger and lineage graph. One database per install; every
// multi-row mutation runs inside a single transaction so a call either
// fully applies or leaves the state untouched.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"promptpilot/internal/logging"
)

// LocalStore holds the preference ledger, the lineage forest, and the
// aggregate counters in one SQLite database.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
// Pass ":memory:" for an ephemeral store in tests.
func NewLocalStore(path string) (*LocalStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create directory: %v", ErrStorage, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStorage, err)
	}

	store := &LocalStore{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("LocalStore initialized at %s", path)
	return store, nil
}

// initialize creates the required tables.
func (s *LocalStore) initialize() error {
	// Preference ledger: one row per (category, keyword). Scores are
	// accumulated additively and decayed toward zero, never deleted.
	ledgerTable := `
	CREATE TABLE IF NOT EXISTS preference_scores (
		category TEXT NOT NULL,
		keyword TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		last_updated INTEGER NOT NULL,
		PRIMARY KEY (category, keyword)
	);
	CREATE INDEX IF NOT EXISTS idx_pref_keyword ON preference_scores(keyword);
	`

	// Occurrence counts per rejection/trash reason label.
	reasonTable := `
	CREATE TABLE IF NOT EXISTS feedback_reasons (
		reason TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);
	`

	// Aggregate counters (total_likes, total_dislikes, total_deletes,
	// total_contributions, total_points).
	counterTable := `
	CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	);
	`

	// Lineage forest: nodes are immutable, parent set exactly once at
	// insert and only to an already-existing node.
	lineageTable := `
	CREATE TABLE IF NOT EXISTS lineage_nodes (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		platform TEXT NOT NULL,
		parent_id TEXT REFERENCES lineage_nodes(id),
		mode TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_lineage_parent ON lineage_nodes(parent_id);
	`

	for _, table := range []string{ledgerTable, reasonTable, counterTable, lineageTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("%w: failed to create table: %v", ErrStorage, err)
		}
	}

	return nil
}

// Path returns the database path.
func (s *LocalStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *LocalStore) Close() error {
	logging.Store("Closing LocalStore at %s", s.dbPath)
	return s.db.Close()
}
