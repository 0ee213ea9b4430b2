package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

const taskColumns = `id, project_id, parent_id, order_index, type, title, description,
		start_date, end_date, progress, status, priority, estimate_pd,
		deleted_at, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.ParentID,
		t.OrderIndex,
		string(t.Type),
		t.Title,
		t.Description,
		dateValue(t.StartDate),
		dateValue(t.EndDate),
		t.Progress,
		string(t.Status),
		t.Priority,
		nullValue(t.EstimatePd),
		timestampValue(t.DeletedAt),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	if len(t.AssigneeIDs) > 0 {
		return r.SetAssignees(ctx, t.ID, t.AssigneeIDs)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	byTask, err := r.assignees(ctx, `WHERE task_id = ?`, id)
	if err != nil {
		return nil, err
	}
	t.AssigneeIDs = byTask[id]
	return t, nil
}

// ListByProject returns the project's tasks with their assignees.
func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string, includeDeleted bool) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks, err := scanTasks(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	byTask, err := r.assignees(ctx,
		`WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)`, projectID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.AssigneeIDs = byTask[t.ID]
	}
	return tasks, nil
}

// SetAssignees replaces the task's assignees.
func (r *SQLiteTaskRepo) SetAssignees(ctx context.Context, taskID string, userIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing assignees: %w", err)
	}
	for _, u := range userIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)`, taskID, u)
		if err != nil {
			return fmt.Errorf("assigning %s: %w", u, err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) assignees(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, user_id FROM task_assignees `+where+` ORDER BY task_id, user_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var taskID, userID string
		if err := rows.Scan(&taskID, &userID); err != nil {
			return nil, fmt.Errorf("scanning assignee: %w", err)
		}
		out[taskID] = append(out[taskID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignees: %w", err)
	}
	return out, nil
}

// ListChildren returns the live children of parentID in display order.
func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE parent_id = ? AND deleted_at IS NULL
		ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ? AND deleted_at IS NULL`, projectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}

// MaxOrderIndex returns the highest order_index among live siblings under
// parentID (nil for root), or -1 when there are none.
func (r *SQLiteTaskRepo) MaxOrderIndex(ctx context.Context, projectID string, parentID *string) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(order_index) FROM tasks
		WHERE project_id = ? AND parent_id IS ? AND deleted_at IS NULL`,
		projectID, parentID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("reading max order index: %w", err)
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

// ShiftOrder increments order_index for live siblings at or after fromIndex.
func (r *SQLiteTaskRepo) ShiftOrder(ctx context.Context, projectID string, parentID *string, fromIndex int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET order_index = order_index + 1
		WHERE project_id = ? AND parent_id IS ? AND order_index >= ? AND deleted_at IS NULL`,
		projectID, parentID, fromIndex,
	)
	if err != nil {
		return fmt.Errorf("shifting task order: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, order_index = ?, type = ?, title = ?, description = ?,
		start_date = ?, end_date = ?, progress = ?, status = ?, priority = ?, estimate_pd = ?,
		updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.ParentID,
		t.OrderIndex,
		string(t.Type),
		t.Title,
		t.Description,
		dateValue(t.StartDate),
		dateValue(t.EndDate),
		t.Progress,
		string(t.Status),
		t.Priority,
		nullValue(t.EstimatePd),
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) UpdateDates(ctx context.Context, id string, start, end *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`,
		dateValue(start),
		dateValue(end),
		formatTimestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating task dates: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) UpdateSummaryFields(ctx context.Context, id string, start, end *time.Time, progress int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET start_date = ?, end_date = ?, progress = ?, updated_at = ? WHERE id = ?`,
		dateValue(start),
		dateValue(end),
		progress,
		formatTimestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating summary task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ts := formatTimestamp(at)
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET deleted_at = ?, updated_at = ? WHERE id = ?`, ts, ts, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var parentID, startStr, endStr, deletedStr sql.Null[string]
	var estimate sql.Null[float64]
	var typeStr, statusStr, createdStr, updatedStr string

	err := row.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.OrderIndex, &typeStr, &t.Title, &t.Description,
		&startStr, &endStr, &t.Progress, &statusStr, &t.Priority, &estimate,
		&deletedStr, &createdStr, &updatedStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.ParentID = nullValueOf(parentID)
	t.Type = domain.TaskType(typeStr)
	t.Status = domain.TaskStatus(statusStr)
	t.StartDate = scanDate(startStr)
	t.EndDate = scanDate(endStr)
	t.EstimatePd = nullValueOf(estimate)
	t.DeletedAt = scanTimestamp(deletedStr)

	if t.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTimestamp(updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
