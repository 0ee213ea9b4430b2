package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

// SQLiteBaselineRepo implements BaselineRepo using a SQLite database.
type SQLiteBaselineRepo struct {
	db db.DBTX
}

// NewSQLiteBaselineRepo creates a new SQLiteBaselineRepo.
func NewSQLiteBaselineRepo(conn db.DBTX) *SQLiteBaselineRepo {
	return &SQLiteBaselineRepo{db: conn}
}

// Create stores the baseline header and its task snapshots. Callers wanting
// atomicity run it inside a unit of work.
func (r *SQLiteBaselineRepo) Create(ctx context.Context, b *domain.Baseline, tasks []domain.BaselineTask) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO baselines (id, project_id, name, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.ProjectID, b.Name, formatTimestamp(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting baseline: %w", err)
	}
	for _, bt := range tasks {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO baseline_tasks (baseline_id, task_id, start_date, end_date, estimate_pd, progress, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, bt.TaskID,
			dateValue(bt.StartDate),
			dateValue(bt.EndDate),
			nullValue(bt.EstimatePd),
			bt.Progress,
			string(bt.Status),
		)
		if err != nil {
			return fmt.Errorf("inserting baseline task %s: %w", bt.TaskID, err)
		}
	}
	return nil
}

func (r *SQLiteBaselineRepo) GetByID(ctx context.Context, id string) (*domain.Baseline, error) {
	var b domain.Baseline
	var createdStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, created_at FROM baselines WHERE id = ?`, id,
	).Scan(&b.ID, &b.ProjectID, &b.Name, &createdStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("baseline: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning baseline: %w", err)
	}
	if b.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &b, nil
}

func (r *SQLiteBaselineRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Baseline, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, created_at FROM baselines
		WHERE project_id = ? ORDER BY created_at DESC, rowid DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}
	defer rows.Close()

	var baselines []*domain.Baseline
	for rows.Next() {
		var b domain.Baseline
		var createdStr string
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning baseline: %w", err)
		}
		if b.CreatedAt, err = parseTimestamp(createdStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		baselines = append(baselines, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baselines: %w", err)
	}
	return baselines, nil
}

func (r *SQLiteBaselineRepo) ListTasks(ctx context.Context, baselineID string) ([]domain.BaselineTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT baseline_id, task_id, start_date, end_date, estimate_pd, progress, status
		FROM baseline_tasks WHERE baseline_id = ?`, baselineID)
	if err != nil {
		return nil, fmt.Errorf("listing baseline tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.BaselineTask
	for rows.Next() {
		var bt domain.BaselineTask
		var startStr, endStr sql.Null[string]
		var estimate sql.Null[float64]
		var statusStr string
		if err := rows.Scan(&bt.BaselineID, &bt.TaskID, &startStr, &endStr, &estimate,
			&bt.Progress, &statusStr); err != nil {
			return nil, fmt.Errorf("scanning baseline task: %w", err)
		}
		bt.StartDate = scanDate(startStr)
		bt.EndDate = scanDate(endStr)
		bt.EstimatePd = nullValueOf(estimate)
		bt.Status = domain.TaskStatus(statusStr)
		tasks = append(tasks, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baseline tasks: %w", err)
	}
	return tasks, nil
}
