package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteFileName is the database file inside the store dir (plus -wal/-shm siblings).
const SQLiteFileName = "smartshop.sqlite"

// Store is a directory holding the shopping-list database.
type Store struct {
	Dir string
}

// DefaultDir resolves the data directory: SMARTSHOP_DIR, else the config dir.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("SMARTSHOP_DIR")); v != "" {
		return v, nil
	}
	return ConfigDir()
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// SQLitePath is the database file inside the store dir.
func (s Store) SQLitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), SQLiteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.SQLitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI keep reading while a CLI invocation writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}
