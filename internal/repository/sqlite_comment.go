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

const commentColumns = `id, task_id, user_id, body, created_at, deleted_at`

// SQLiteCommentRepo implements CommentRepo using a SQLite database.
type SQLiteCommentRepo struct {
	db db.DBTX
}

// NewSQLiteCommentRepo creates a new SQLiteCommentRepo.
func NewSQLiteCommentRepo(conn db.DBTX) *SQLiteCommentRepo {
	return &SQLiteCommentRepo{db: conn}
}

func (r *SQLiteCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.UserID, c.Body, formatTimestamp(c.CreatedAt), timestampValue(c.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *SQLiteCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	return c, err
}

// ListByTask returns the task's live comments, oldest first.
func (r *SQLiteCommentRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments
		WHERE task_id = ? AND deleted_at IS NULL ORDER BY created_at, rowid`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}
	return comments, nil
}

func (r *SQLiteCommentRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET deleted_at = ? WHERE id = ?`, formatTimestamp(at), id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	var createdStr string
	var deletedStr sql.Null[string]
	if err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Body, &createdStr, &deletedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning comment: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.DeletedAt = scanTimestamp(deletedStr)
	return &c, nil
}
