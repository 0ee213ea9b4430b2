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

const deliverableColumns = `d.id, d.project_id, d.name, d.url, d.type, d.note, d.created_at`

// SQLiteDeliverableRepo stores deliverables and their task links.
type SQLiteDeliverableRepo struct {
	db db.DBTX
}

func NewSQLiteDeliverableRepo(conn db.DBTX) *SQLiteDeliverableRepo {
	return &SQLiteDeliverableRepo{db: conn}
}

func (r *SQLiteDeliverableRepo) Create(ctx context.Context, d *domain.Deliverable) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deliverables (id, project_id, name, url, type, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ProjectID, d.Name, d.URL, d.Type, d.Note, formatTimestamp(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting deliverable: %w", err)
	}
	return nil
}

func (r *SQLiteDeliverableRepo) GetByID(ctx context.Context, id string) (*domain.Deliverable, error) {
	d, err := scanDeliverable(r.db.QueryRowContext(ctx,
		`SELECT `+deliverableColumns+` FROM deliverables d WHERE d.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deliverable: %w", ErrNotFound)
	}
	return d, err
}

func (r *SQLiteDeliverableRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Deliverable, error) {
	return r.query(ctx, `SELECT `+deliverableColumns+` FROM deliverables d
		WHERE d.project_id = ? ORDER BY d.created_at, d.rowid`, projectID)
}

// ListByTask returns the deliverables linked to taskID in link order.
func (r *SQLiteDeliverableRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.Deliverable, error) {
	return r.query(ctx, `SELECT `+deliverableColumns+` FROM deliverables d
		JOIN task_deliverables td ON td.deliverable_id = d.id
		WHERE td.task_id = ? ORDER BY td.created_at, td.rowid`, taskID)
}

func (r *SQLiteDeliverableRepo) IsLinked(ctx context.Context, taskID, deliverableID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_deliverables WHERE task_id = ? AND deliverable_id = ?`,
		taskID, deliverableID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking deliverable link: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteDeliverableRepo) Link(ctx context.Context, taskID, deliverableID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_deliverables (task_id, deliverable_id, created_at) VALUES (?, ?, ?)`,
		taskID, deliverableID, formatTimestamp(at),
	)
	if err != nil {
		return fmt.Errorf("linking deliverable: %w", err)
	}
	return nil
}

func (r *SQLiteDeliverableRepo) Unlink(ctx context.Context, taskID, deliverableID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM task_deliverables WHERE task_id = ? AND deliverable_id = ?`, taskID, deliverableID)
	if err != nil {
		return fmt.Errorf("unlinking deliverable: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unlinking deliverable: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deliverable link: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteDeliverableRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Deliverable, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deliverables: %w", err)
	}
	defer rows.Close()

	var out []*domain.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deliverables: %w", err)
	}
	return out, nil
}

func scanDeliverable(row rowScanner) (*domain.Deliverable, error) {
	var d domain.Deliverable
	var createdStr string
	if err := row.Scan(&d.ID, &d.ProjectID, &d.Name, &d.URL, &d.Type, &d.Note, &createdStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning deliverable: %w", err)
	}
	var err error
	if d.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
