package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

const dependencyColumns = `d.id, d.project_id, d.predecessor_task_id, d.successor_task_id,
		d.type, d.lag_days, d.created_at`

// liveEdges restricts a dependency query to edges whose endpoints are both
// live tasks.
const liveEdges = ` FROM dependencies d
		JOIN tasks p ON p.id = d.predecessor_task_id AND p.deleted_at IS NULL
		JOIN tasks s ON s.id = d.successor_task_id AND s.deleted_at IS NULL`

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	query := `INSERT INTO dependencies (id, project_id, predecessor_task_id, successor_task_id,
		type, lag_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ProjectID,
		d.PredecessorTaskID,
		d.SuccessorTaskID,
		string(d.Type),
		d.LagDays,
		formatTimestamp(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies d WHERE d.id = ?`
	return scanDependency(r.db.QueryRowContext(ctx, query, id))
}

// Exists reports whether an edge predecessor -> successor is already stored.
func (r *SQLiteDependencyRepo) Exists(ctx context.Context, predecessorID, successorID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dependencies WHERE predecessor_task_id = ? AND successor_task_id = ?`,
		predecessorID, successorID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking dependency: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + liveEdges + `
		WHERE d.project_id = ? ORDER BY d.created_at`
	return r.query(ctx, query, projectID)
}

// ListByPredecessor returns the outgoing edges of taskID.
func (r *SQLiteDependencyRepo) ListByPredecessor(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + liveEdges + `
		WHERE d.predecessor_task_id = ? ORDER BY d.created_at`
	return r.query(ctx, query, taskID)
}

// ListForTask returns every edge where taskID is either endpoint.
func (r *SQLiteDependencyRepo) ListForTask(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + liveEdges + `
		WHERE d.predecessor_task_id = ? OR d.successor_task_id = ? ORDER BY d.created_at`
	return r.query(ctx, query, taskID, taskID)
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dependencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dependency: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteDependencyRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	var deps []*domain.Dependency
	for rows.Next() {
		d, err := scanDependency(rows)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

func scanDependency(row rowScanner) (*domain.Dependency, error) {
	var d domain.Dependency
	var typeStr, createdStr string
	err := row.Scan(&d.ID, &d.ProjectID, &d.PredecessorTaskID, &d.SuccessorTaskID,
		&typeStr, &d.LagDays, &createdStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("dependency: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning dependency: %w", err)
	}
	d.Type = domain.DependencyType(typeStr)
	if d.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
