package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a document or item id does not exist.
var ErrNotFound = errors.New("not found")

type DB struct {
	db             *sql.DB
	eventListeners map[EventKind][]EventListener
}

// NewSQLiteDB opens the SQLite database at path. ":memory:" gives a private
// in-memory database.
func NewSQLiteDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases intact and serialises
	// writers from the archive workers.
	db.SetMaxOpenConns(1)

	return &DB{
		db:             db,
		eventListeners: make(map[EventKind][]EventListener),
	}, nil
}

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations, in file name order.
func (db *DB) Migrate() error {
	if _, err := db.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema migrations table: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		version := strings.TrimSuffix(path.Base(name), ".sql")
		applied, err := db.migrationApplied(version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := db.applyMigration(name, version); err != nil {
			return err
		}
		log.Printf("Migration %s applied successfully", version)
	}

	return nil
}

func (db *DB) migrationApplied(version string) (bool, error) {
	var exists bool
	if err := db.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = ?)`, version,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if migration has been applied: %w", err)
	}
	return exists, nil
}

func (db *DB) applyMigration(name, version string) error {
	content, err := migrationsFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", version, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("failed to mark migration as applied: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rollback is deferred right after Begin; it is a no-op once the transaction
// has been committed.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Printf("failed to roll back transaction: %v", err)
	}
}

func (db *DB) Close() error {
	return db.db.Close()
}
