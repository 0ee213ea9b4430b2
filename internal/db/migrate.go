package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every open; columns added after a table first shipped
// are applied only where missing.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	for _, c := range addedColumns {
		if err := ensureColumn(db, c); err != nil {
			return fmt.Errorf("adding %s.%s: %w", c.table, c.name, err)
		}
	}
	return nil
}

type column struct {
	table, name, decl string
}

var addedColumns = []column{
	{table: "comments", name: "deleted_at", decl: "TEXT"},
}

func ensureColumn(db *sql.DB, c column) error {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, c.table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if name == c.name {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = db.Exec(`ALTER TABLE ` + c.table + ` ADD COLUMN ` + c.name + ` ` + c.decl)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id            TEXT PRIMARY KEY,
		code          TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		start_date    TEXT,
		end_date      TEXT,
		auto_schedule INTEGER NOT NULL DEFAULT 0,
		deleted_at    TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_code ON projects(code) WHERE code != '' AND deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id   TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		order_index INTEGER NOT NULL DEFAULT 0,
		type        TEXT NOT NULL
		            CHECK(type IN ('task','summary','milestone')),
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date  TEXT,
		end_date    TEXT,
		progress    INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		status      TEXT NOT NULL DEFAULT 'NotStarted'
		            CHECK(status IN ('NotStarted','InProgress','Blocked','Done')),
		priority    TEXT NOT NULL DEFAULT '',
		estimate_pd REAL,
		deleted_at  TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		predecessor_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		type                TEXT NOT NULL DEFAULT 'FS' CHECK(type IN ('FS')),
		lag_days            INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL,
		UNIQUE (predecessor_task_id, successor_task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_dependencies_project ON dependencies(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_successor ON dependencies(successor_task_id)`,

	`CREATE TABLE IF NOT EXISTS time_logs (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		work_date  TEXT NOT NULL,
		pd         REAL NOT NULL CHECK(pd > 0),
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_logs_task ON time_logs(task_id)`,

	`CREATE TABLE IF NOT EXISTS change_logs (
		id          TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		field       TEXT NOT NULL,
		before      TEXT,
		after       TEXT,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_change_logs_entity ON change_logs(entity_type, entity_id)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		deleted_at TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id)`,

	`CREATE TABLE IF NOT EXISTS baselines (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS baseline_tasks (
		baseline_id TEXT NOT NULL REFERENCES baselines(id) ON DELETE CASCADE,
		task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		start_date  TEXT,
		end_date    TEXT,
		estimate_pd REAL,
		progress    INTEGER NOT NULL DEFAULT 0,
		status      TEXT NOT NULL,
		PRIMARY KEY (baseline_id, task_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_assignees (
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		PRIMARY KEY (task_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS deliverables (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		url        TEXT NOT NULL,
		type       TEXT NOT NULL DEFAULT '',
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deliverables_project ON deliverables(project_id)`,

	`CREATE TABLE IF NOT EXISTS task_deliverables (
		task_id        TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		deliverable_id TEXT NOT NULL REFERENCES deliverables(id) ON DELETE CASCADE,
		created_at     TEXT NOT NULL,
		PRIMARY KEY (task_id, deliverable_id)
	)`,
}
