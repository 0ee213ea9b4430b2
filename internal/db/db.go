package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// filePragmas apply to every pooled connection of a file database. Writers
// take the lock at BEGIN so a CLI edit and an MCP request in another process
// queue on busy_timeout instead of failing mid-cascade.
const filePragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// OpenDB opens the schedule database at path, creating its directory, and
// applies migrations. MemoryPath gives an in-memory database pinned to one
// connection so every query sees the same schema.
func OpenDB(path string) (*sql.DB, error) {
	if path == MemoryPath {
		return openMemory()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+filePragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return migrated(db)
}

func openMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return migrated(db)
}

func migrated(db *sql.DB) (*sql.DB, error) {
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
