package domain

import "time"

type TimeLog struct {
	ID        string
	TaskID    string
	UserID    string
	WorkDate  time.Time
	Pd        float64
	Note      string
	CreatedAt time.Time
}

type Comment struct {
	ID        string
	TaskID    string
	UserID    string
	Body      string
	CreatedAt time.Time
	DeletedAt *time.Time
}

// ChangeLog records a single field-level change on an entity.
type ChangeLog struct {
	ID         string
	EntityType string
	EntityID   string
	UserID     string
	Field      string
	Before     *string
	After      *string
	CreatedAt  time.Time
}
