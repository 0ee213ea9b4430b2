package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

// SQLiteChangeLogRepo implements ChangeLogRepo using a SQLite database.
type SQLiteChangeLogRepo struct {
	db db.DBTX
}

// NewSQLiteChangeLogRepo creates a new SQLiteChangeLogRepo.
func NewSQLiteChangeLogRepo(conn db.DBTX) *SQLiteChangeLogRepo {
	return &SQLiteChangeLogRepo{db: conn}
}

func (r *SQLiteChangeLogRepo) Create(ctx context.Context, c *domain.ChangeLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO change_logs (id, entity_type, entity_id, user_id, field, before, after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.EntityType, c.EntityID, c.UserID, c.Field, c.Before, c.After,
		formatTimestamp(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting change log: %w", err)
	}
	return nil
}

// ListByEntity returns the history of one entity, newest first.
func (r *SQLiteChangeLogRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.ChangeLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, user_id, field, before, after, created_at
		FROM change_logs WHERE entity_type = ? AND entity_id = ?
		ORDER BY created_at DESC, rowid DESC`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("listing change logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.ChangeLog
	for rows.Next() {
		var c domain.ChangeLog
		var before, after sql.Null[string]
		var createdStr string
		if err := rows.Scan(&c.ID, &c.EntityType, &c.EntityID, &c.UserID, &c.Field,
			&before, &after, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning change log: %w", err)
		}
		c.Before = nullValueOf(before)
		c.After = nullValueOf(after)
		if c.CreatedAt, err = parseTimestamp(createdStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		logs = append(logs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating change logs: %w", err)
	}
	return logs, nil
}
