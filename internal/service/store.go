package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/scheduling"
	"github.com/google/uuid"
)

// txRepos bundles the repositories bound to one transaction.
type txRepos struct {
	projects     repository.ProjectRepo
	tasks        repository.TaskRepo
	deps         repository.DependencyRepo
	timeLogs     repository.TimeLogRepo
	changeLogs   repository.ChangeLogRepo
	comments     repository.CommentRepo
	baselines    repository.BaselineRepo
	deliverables repository.DeliverableRepo
}

func newTxRepos(tx db.DBTX) *txRepos {
	return &txRepos{
		projects:     repository.NewSQLiteProjectRepo(tx),
		tasks:        repository.NewSQLiteTaskRepo(tx),
		deps:         repository.NewSQLiteDependencyRepo(tx),
		timeLogs:     repository.NewSQLiteTimeLogRepo(tx),
		changeLogs:   repository.NewSQLiteChangeLogRepo(tx),
		comments:     repository.NewSQLiteCommentRepo(tx),
		baselines:    repository.NewSQLiteBaselineRepo(tx),
		deliverables: repository.NewSQLiteDeliverableRepo(tx),
	}
}

// engine returns a scheduling engine over this transaction that records
// every auto-scheduled shift in the change log.
func (r *txRepos) engine() *scheduling.Engine {
	return scheduling.NewEngine(engineStore{r: r}, scheduling.WithShiftHook(func(ctx context.Context, sh scheduling.Shift) error {
		before := jsonString(dateRange{Start: domain.FormatDate(&sh.BeforeStart), End: domain.FormatDate(&sh.BeforeEnd)})
		after := jsonString(dateRange{Start: domain.FormatDate(&sh.AfterStart), End: domain.FormatDate(&sh.AfterEnd)})
		return r.logChange(ctx, domain.EntityTask, sh.TaskID, sh.Actor, "auto-scheduled", before, after)
	}))
}

// reaggregateParents re-aggregates the parent summaries of tasks moved by
// propagation, each parent once.
func reaggregateParents(ctx context.Context, engine *scheduling.Engine, shifted []*domain.Task) error {
	seen := make(map[string]bool)
	for _, t := range shifted {
		if t.ParentID == nil || seen[*t.ParentID] {
			continue
		}
		seen[*t.ParentID] = true
		if err := engine.RecalculateSummary(ctx, *t.ParentID); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepos) logChange(ctx context.Context, entityType, entityID, actor, field string, before, after *string) error {
	return r.changeLogs.Create(ctx, &domain.ChangeLog{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     actor,
		Field:      field,
		Before:     before,
		After:      after,
		CreatedAt:  time.Now().UTC(),
	})
}

// liveProject loads a project, treating a soft-deleted one as missing.
func (r *txRepos) liveProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := r.projects.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "project "+id)
	}
	if p.IsDeleted() {
		return nil, notFoundf("project %s", id)
	}
	return p, nil
}

// liveTask loads a task, treating a soft-deleted one as missing.
func (r *txRepos) liveTask(ctx context.Context, id string) (*domain.Task, error) {
	t, err := r.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "task "+id)
	}
	if t.IsDeleted() {
		return nil, notFoundf("task %s", id)
	}
	return t, nil
}

// liveTasksIn loads each id as a live task of projectID.
func (r *txRepos) liveTasksIn(ctx context.Context, projectID string, ids ...string) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		t, err := r.liveTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if t.ProjectID != projectID {
			return nil, notFoundf("task %s in project %s", id, projectID)
		}
		out = append(out, t)
	}
	return out, nil
}

type dateRange struct {
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

func jsonString(v any) *string {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

func strPtr(s string) *string {
	return &s
}

// engineStore adapts tx-scoped repositories to scheduling.Store.
type engineStore struct {
	r *txRepos
}

func (s engineStore) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.r.tasks.GetByID(ctx, id)
}

func (s engineStore) FindChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	return s.r.tasks.ListChildren(ctx, parentID)
}

func (s engineStore) FindTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.r.tasks.ListByProject(ctx, projectID, false)
}

func (s engineStore) FindDependenciesByPredecessor(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	return s.r.deps.ListByPredecessor(ctx, taskID)
}

func (s engineStore) FindDependenciesByProject(ctx context.Context, projectID string) ([]*domain.Dependency, error) {
	return s.r.deps.ListByProject(ctx, projectID)
}

func (s engineStore) UpdateTaskDates(ctx context.Context, taskID string, start, end *time.Time) error {
	return s.r.tasks.UpdateDates(ctx, taskID, start, end)
}

func (s engineStore) UpdateSummaryFields(ctx context.Context, taskID string, start, end *time.Time, progress int) error {
	return s.r.tasks.UpdateSummaryFields(ctx, taskID, start, end, progress)
}
