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

const projectColumns = `id, code, name, description, start_date, end_date, auto_schedule,
		deleted_at, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Code,
		p.Name,
		p.Description,
		dateValue(p.StartDate),
		dateValue(p.EndDate),
		p.AutoSchedule,
		timestampValue(p.DeletedAt),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return r.scanProject(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProjectRepo) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE UPPER(code) = UPPER(?) AND deleted_at IS NULL`
	return r.scanProject(r.db.QueryRowContext(ctx, query, code))
}

func (r *SQLiteProjectRepo) List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE deleted_at IS NULL ORDER BY created_at`
	if includeDeleted {
		query = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET code = ?, name = ?, description = ?, start_date = ?, end_date = ?,
		auto_schedule = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Code,
		p.Name,
		p.Description,
		dateValue(p.StartDate),
		dateValue(p.EndDate),
		p.AutoSchedule,
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ts := formatTimestamp(at)
	query := `UPDATE projects SET deleted_at = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, ts, ts, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteProjectRepo) scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var startStr, endStr, deletedStr sql.Null[string]
	var createdStr, updatedStr string

	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &startStr, &endStr, &p.AutoSchedule,
		&deletedStr, &createdStr, &updatedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.StartDate = scanDate(startStr)
	p.EndDate = scanDate(endStr)
	p.DeletedAt = scanTimestamp(deletedStr)

	if p.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTimestamp(updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
