package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/wbs/internal/db"
)

// NewTestDB returns a migrated in-memory database that lives for the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	return openTestDB(t, db.MemoryPath)
}

// NewTestFileDB returns a migrated database file under t.TempDir, for tests
// that need WAL mode or more than one connection.
func NewTestFileDB(t testing.TB) *sql.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "wbs.db"))
}

func openTestDB(t testing.TB, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening test database %s: %v", path, err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
