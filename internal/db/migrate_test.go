package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const seedProject = `INSERT INTO projects (id, code, name, created_at, updated_at)
	VALUES ('p1', 'TST01', 'Test', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`

func seedTask(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO tasks (id, project_id, type, title, created_at, updated_at)
		VALUES (?, 'p1', 'task', ?, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`, id, "Task "+id)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time — should succeed without error.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "tasks", "dependencies", "time_logs", "change_logs", "comments", "baselines", "baseline_tasks",
		"task_assignees", "deliverables", "task_deliverables"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_code",
		"idx_tasks_project",
		"idx_tasks_parent",
		"idx_dependencies_project",
		"idx_dependencies_successor",
		"idx_time_logs_task",
		"idx_change_logs_entity",
		"idx_comments_task",
		"idx_deliverables_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddsColumnsToOlderTables(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE comments (
		id TEXT PRIMARY KEY, task_id TEXT NOT NULL, user_id TEXT NOT NULL,
		body TEXT NOT NULL, created_at TEXT NOT NULL)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('comments') WHERE name = 'deleted_at'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestOpenDB_FilePragmasOnEveryConnection(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "wbs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Hold several connections open at once so each one is checked.
	ctx := context.Background()
	var conns []*sql.Conn
	for range 3 {
		c, err := db.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, c)
	}
	for _, c := range conns {
		var fk int
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		assert.Equal(t, 1, fk)
		var mode string
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
		assert.Equal(t, "wal", mode)
		require.NoError(t, c.Close())
	}
}

func TestMigrate_TaskCheckConstraints(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(seedProject)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tasks (id, project_id, type, title, created_at, updated_at)
		VALUES ('t1', 'p1', 'epic', 'Bad type', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid type should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO tasks (id, project_id, type, title, status, created_at, updated_at)
		VALUES ('t1', 'p1', 'task', 'Bad status', 'Todo', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid status should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO tasks (id, project_id, type, title, progress, created_at, updated_at)
		VALUES ('t1', 'p1', 'task', 'Bad progress', 150, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "progress above 100 should be rejected by CHECK constraint")

	seedTask(t, db, "t1")
}

func TestMigrate_DependenciesUniquePair(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(seedProject)
	require.NoError(t, err)
	seedTask(t, db, "a")
	seedTask(t, db, "b")

	insert := `INSERT INTO dependencies (id, project_id, predecessor_task_id, successor_task_id, created_at)
		VALUES (?, 'p1', 'a', 'b', '2026-01-01T00:00:00Z')`
	_, err = db.Exec(insert, "d1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "d2")
	assert.Error(t, err, "duplicate dependency pair should violate the unique constraint")
}

func TestMigrate_DependencyTypeRestrictedToFS(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(seedProject)
	require.NoError(t, err)
	seedTask(t, db, "a")
	seedTask(t, db, "b")

	_, err = db.Exec(`INSERT INTO dependencies (id, project_id, predecessor_task_id, successor_task_id, type, created_at)
		VALUES ('d1', 'p1', 'a', 'b', 'SS', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_TimeLogPositivePd(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(seedProject)
	require.NoError(t, err)
	seedTask(t, db, "a")

	_, err = db.Exec(`INSERT INTO time_logs (id, task_id, user_id, work_date, pd, created_at)
		VALUES ('l1', 'a', 'u1', '2026-01-02', 0, '2026-01-02T00:00:00Z')`)
	assert.Error(t, err, "zero pd should be rejected")
}
