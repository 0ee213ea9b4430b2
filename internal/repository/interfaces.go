package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string, includeDeleted bool) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	MaxOrderIndex(ctx context.Context, projectID string, parentID *string) (int, error)
	ShiftOrder(ctx context.Context, projectID string, parentID *string, fromIndex int) error
	Update(ctx context.Context, t *domain.Task) error
	UpdateDates(ctx context.Context, id string, start, end *time.Time) error
	UpdateSummaryFields(ctx context.Context, id string, start, end *time.Time, progress int) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	SetAssignees(ctx context.Context, taskID string, userIDs []string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	GetByID(ctx context.Context, id string) (*domain.Dependency, error)
	Exists(ctx context.Context, predecessorID, successorID string) (bool, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Dependency, error)
	ListByPredecessor(ctx context.Context, taskID string) ([]*domain.Dependency, error)
	ListForTask(ctx context.Context, taskID string) ([]*domain.Dependency, error)
	Delete(ctx context.Context, id string) error
}

type TimeLogRepo interface {
	Create(ctx context.Context, l *domain.TimeLog) error
	ListByTask(ctx context.Context, taskID string, from, to *time.Time) ([]*domain.TimeLog, error)
	SumByTask(ctx context.Context, taskID string) (float64, error)
	SumByProject(ctx context.Context, projectID string) (map[string]float64, error)
}

type ChangeLogRepo interface {
	Create(ctx context.Context, c *domain.ChangeLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.ChangeLog, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type DeliverableRepo interface {
	Create(ctx context.Context, d *domain.Deliverable) error
	GetByID(ctx context.Context, id string) (*domain.Deliverable, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Deliverable, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Deliverable, error)
	IsLinked(ctx context.Context, taskID, deliverableID string) (bool, error)
	Link(ctx context.Context, taskID, deliverableID string, at time.Time) error
	Unlink(ctx context.Context, taskID, deliverableID string) error
}

type BaselineRepo interface {
	Create(ctx context.Context, b *domain.Baseline, tasks []domain.BaselineTask) error
	GetByID(ctx context.Context, id string) (*domain.Baseline, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Baseline, error)
	ListTasks(ctx context.Context, baselineID string) ([]domain.BaselineTask, error)
}
