package service

import (
	"context"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/importer"
	"github.com/alexanderramin/wbs/internal/scheduling"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project, actor string) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve finds a live project by id or by code.
	Resolve(ctx context.Context, idOrCode string) (*domain.Project, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch, actor string) (*domain.Project, error)
	Delete(ctx context.Context, id string, actor string) error
}

type TaskService interface {
	Create(ctx context.Context, projectID string, in TaskInput, actor string) (*UpdateResult, error)
	Get(ctx context.Context, id string) (*TaskView, error)
	List(ctx context.Context, projectID string, includeDeleted bool) ([]*TaskView, error)
	Update(ctx context.Context, id string, patch TaskPatch, actor string) (*UpdateResult, error)
	Delete(ctx context.Context, id string, actor string) error
	Move(ctx context.Context, id string, newParentID, afterTaskID *string, actor string) error
}

type DependencyService interface {
	Create(ctx context.Context, projectID string, in DependencyInput, actor string) (*DependencyResult, error)
	List(ctx context.Context, projectID string) ([]*domain.Dependency, error)
	Delete(ctx context.Context, id string, actor string) error
}

// ScheduleService exposes the engine operations directly, each in its own
// transaction.
type ScheduleService interface {
	WouldCreateCycle(ctx context.Context, projectID, predecessorID, successorID string) (bool, error)
	Propagate(ctx context.Context, taskID, actor string) ([]*domain.Task, error)
	RecalculateSummary(ctx context.Context, summaryID string) error
	RecalculateProject(ctx context.Context, projectID string) error
}

type TimeLogService interface {
	Log(ctx context.Context, taskID string, workDate time.Time, pd float64, note, actor string) (*domain.TimeLog, error)
	ListByTask(ctx context.Context, taskID string, from, to *time.Time) ([]*domain.TimeLog, error)
	ActualPd(ctx context.Context, taskID string) (float64, error)
}

type BaselineService interface {
	Create(ctx context.Context, projectID, name, actor string) (*domain.Baseline, error)
	List(ctx context.Context, projectID string) ([]*domain.Baseline, error)
	Diff(ctx context.Context, baselineID string) (*BaselineDiff, error)
}

type CommentService interface {
	Add(ctx context.Context, taskID, body, actor string) (*domain.Comment, error)
	// ListByTask hides soft-deleted comments.
	ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error)
	Delete(ctx context.Context, id, actor string) error
}

// DeliverableService manages a project's deliverables and their links to
// tasks. Link changes are logged against the task.
type DeliverableService interface {
	Create(ctx context.Context, projectID string, in DeliverableInput, actor string) (*domain.Deliverable, error)
	LinkToTask(ctx context.Context, taskID, deliverableID, actor string) error
	Unlink(ctx context.Context, taskID, deliverableID, actor string) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Deliverable, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Deliverable, error)
}

type ChangeLogService interface {
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.ChangeLog, error)
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project         *domain.Project
	TaskCount       int
	DependencyCount int
	Affected        []*domain.Task
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath, actor string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema, actor string) (*ImportResult, error)
}

// ProjectPatch carries the project fields to change; nil means unchanged.
type ProjectPatch struct {
	Name         *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	AutoSchedule *bool
}

// TaskInput describes a new task.
type TaskInput struct {
	ParentID    *string
	Type        domain.TaskType
	Title       string
	Description string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
	Progress    int
	Status      domain.TaskStatus
	EstimatePd  *float64
	AssigneeIDs []string
}

// TaskPatch carries the task fields to change; nil means unchanged. The
// Clear flags set the matching optional field to null.
type TaskPatch struct {
	Title         *string
	Description   *string
	Priority      *string
	StartDate     *time.Time
	EndDate       *time.Time
	ClearStart    bool
	ClearEnd      bool
	Progress      *int
	Status        *domain.TaskStatus
	EstimatePd    *float64
	ClearEstimate bool
	// AssigneeIDs replaces the whole assignee set; an empty slice clears it.
	AssigneeIDs *[]string
}

// TouchesDates reports whether the patch sets or clears either date.
func (p TaskPatch) TouchesDates() bool {
	return p.StartDate != nil || p.EndDate != nil || p.ClearStart || p.ClearEnd
}

// TaskView is a task enriched with read-time data.
type TaskView struct {
	*domain.Task
	WBS      string
	Depth    int
	ActualPd float64
	Warnings scheduling.Warnings
}

// UpdateResult is a written task plus every other task the write moved.
type UpdateResult struct {
	Task     *TaskView
	Affected []*domain.Task
}

type DeliverableInput struct {
	Name string
	URL  string
	Type string
	Note string
}

type DependencyInput struct {
	PredecessorID string
	SuccessorID   string
	Type          domain.DependencyType
	LagDays       int
}

type DependencyResult struct {
	Dependency *domain.Dependency
	Affected   []*domain.Task
}

type BaselineDiffItem struct {
	TaskID        string
	TaskTitle     string
	BaselineStart *time.Time
	BaselineEnd   *time.Time
	CurrentStart  *time.Time
	CurrentEnd    *time.Time
	// DeltaDays compares end dates; nil when either is missing.
	DeltaDays *int
	DeltaPd   *float64
}

type BaselineDiffSummary struct {
	SlippedTasks   int
	TotalDeltaDays int
	DeltaPd        float64
}

type BaselineDiff struct {
	Baseline *domain.Baseline
	Summary  BaselineDiffSummary
	Items    []BaselineDiffItem
}
