package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps keys in a kv table of a SQLite database.
// A libsql:// or wss:// DSN talks to a remote libsql (Turso) database instead.
type SQLiteBackend struct {
	db *sql.DB
}

// migrations are applied in order; index i brings the schema to version i+1.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// localPragmas tune a local database file; remote databases ignore them.
var localPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// NewSQLiteBackend opens dsn and brings its schema up to date.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	remote := isRemoteDSN(dsn)

	driver := "sqlite"
	if remote {
		driver = "libsql"
	} else if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	s := &SQLiteBackend{db: db}
	if err := s.init(remote); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "wss://")
}

func (s *SQLiteBackend) init(remote bool) error {
	if !remote {
		for _, pragma := range localPragmas {
			if _, err := s.db.Exec(pragma); err != nil {
				return fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read schema version: %w", err)
	}

	for v := version; v < len(migrations); v++ {
		if _, err := s.db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}
	if version == len(migrations) {
		return nil
	}

	if _, err := s.db.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, len(migrations)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

func (s *SQLiteBackend) Get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLiteBackend) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
