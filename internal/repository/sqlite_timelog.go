package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

// SQLiteTimeLogRepo implements TimeLogRepo using a SQLite database.
type SQLiteTimeLogRepo struct {
	db db.DBTX
}

// NewSQLiteTimeLogRepo creates a new SQLiteTimeLogRepo.
func NewSQLiteTimeLogRepo(conn db.DBTX) *SQLiteTimeLogRepo {
	return &SQLiteTimeLogRepo{db: conn}
}

func (r *SQLiteTimeLogRepo) Create(ctx context.Context, l *domain.TimeLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_logs (id, task_id, user_id, work_date, pd, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.TaskID, l.UserID, l.WorkDate.Format(dateLayout), l.Pd, l.Note,
		formatTimestamp(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting time log: %w", err)
	}
	return nil
}

// ListByTask returns logs for taskID ordered by work date, optionally bounded
// by an inclusive from/to range.
func (r *SQLiteTimeLogRepo) ListByTask(ctx context.Context, taskID string, from, to *time.Time) ([]*domain.TimeLog, error) {
	query := `SELECT id, task_id, user_id, work_date, pd, note, created_at
		FROM time_logs WHERE task_id = ?`
	args := []any{taskID}
	if from != nil {
		query += ` AND work_date >= ?`
		args = append(args, from.Format(dateLayout))
	}
	if to != nil {
		query += ` AND work_date <= ?`
		args = append(args, to.Format(dateLayout))
	}
	query += ` ORDER BY work_date, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing time logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.TimeLog
	for rows.Next() {
		var l domain.TimeLog
		var workStr, createdStr string
		if err := rows.Scan(&l.ID, &l.TaskID, &l.UserID, &workStr, &l.Pd, &l.Note, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning time log: %w", err)
		}
		if l.WorkDate, err = time.Parse(dateLayout, workStr); err != nil {
			return nil, fmt.Errorf("parsing work_date: %w", err)
		}
		if l.CreatedAt, err = parseTimestamp(createdStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time logs: %w", err)
	}
	return logs, nil
}

// SumByTask returns the total person-days logged against taskID.
func (r *SQLiteTimeLogRepo) SumByTask(ctx context.Context, taskID string) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(pd) FROM time_logs WHERE task_id = ?`, taskID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing time logs: %w", err)
	}
	return total.Float64, nil
}

// SumByProject returns logged person-days per task for every live task in
// the project that has at least one log.
func (r *SQLiteTimeLogRepo) SumByProject(ctx context.Context, projectID string) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.task_id, SUM(l.pd) FROM time_logs l
		JOIN tasks t ON t.id = l.task_id
		WHERE t.project_id = ? AND t.deleted_at IS NULL
		GROUP BY l.task_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("summing project time logs: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var taskID string
		var total float64
		if err := rows.Scan(&taskID, &total); err != nil {
			return nil, fmt.Errorf("scanning time log sum: %w", err)
		}
		sums[taskID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time log sums: %w", err)
	}
	return sums, nil
}
