package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	timeLogs repository.TimeLogRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	timeLogs repository.TimeLogRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:    tasks,
		deps:     deps,
		timeLogs: timeLogs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, projectID string, in TaskInput, actor string) (result *UpdateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "title": in.Title}
	defer func() { observe(ctx, s.observer, "task-create", startedAt, fields, err) }()

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		ParentID:    in.ParentID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Progress:    in.Progress,
		Status:      in.Status,
		EstimatePd:  in.EstimatePd,
		AssigneeIDs: domain.NormalizeAssignees(in.AssigneeIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Type == "" {
		task.Type = domain.TaskTypeTask
	}
	if task.Status == "" {
		task.Status = domain.StatusNotStarted
	}
	if task.IsSummary() && (task.StartDate != nil || task.EndDate != nil) {
		return nil, validationf("summary task dates are calculated from children")
	}
	task.ApplyStatus(task.Status)
	task.NormalizeMilestone()
	if err := task.Validate(); err != nil {
		return nil, validationf("%v", err)
	}

	var affected []*domain.Task
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		project, err := r.liveProject(ctx, projectID)
		if err != nil {
			return err
		}
		if task.ParentID != nil {
			parent, err := r.liveTask(ctx, *task.ParentID)
			if err != nil {
				return fmt.Errorf("parent %w", err)
			}
			if parent.ProjectID != projectID {
				return notFoundf("parent task %s in project %s", parent.ID, projectID)
			}
		}

		maxIdx, err := r.tasks.MaxOrderIndex(ctx, projectID, task.ParentID)
		if err != nil {
			return err
		}
		task.OrderIndex = maxIdx + 1

		if err := r.tasks.Create(ctx, task); err != nil {
			return err
		}
		created := jsonString(map[string]any{"title": task.Title, "type": task.Type})
		if err := r.logChange(ctx, domain.EntityTask, task.ID, actor, "created", nil, created); err != nil {
			return err
		}

		engine := r.engine()
		if project.AutoSchedule && task.HasDates() {
			if affected, err = engine.PropagateSchedule(ctx, projectID, task.ID, actor); err != nil {
				return err
			}
		}
		if task.ParentID != nil {
			return engine.RecalculateSummary(ctx, *task.ParentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["task_id"] = task.ID

	view, err := s.Get(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Task: view, Affected: affected}, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*TaskView, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "task "+id)
	}
	if t.IsDeleted() {
		return nil, notFoundf("task %s", id)
	}
	views, err := projectViews(ctx, s.tasks, s.deps, s.timeLogs, t.ProjectID, false)
	if err != nil {
		return nil, err
	}
	return findView(views, id)
}

func (s *taskService) List(ctx context.Context, projectID string, includeDeleted bool) ([]*TaskView, error) {
	return projectViews(ctx, s.tasks, s.deps, s.timeLogs, projectID, includeDeleted)
}

type fieldChange struct {
	field         string
	before, after *string
}

func (s *taskService) Update(ctx context.Context, id string, patch TaskPatch, actor string) (result *UpdateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "task-update", startedAt, fields, err) }()

	var affected []*domain.Task
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		existing, err := r.liveTask(ctx, id)
		if err != nil {
			return err
		}
		if existing.IsSummary() && patch.TouchesDates() {
			return validationf("summary task dates are calculated from children")
		}
		if existing.IsSummary() && patch.Progress != nil {
			return validationf("summary task progress is calculated from children")
		}

		updated := *existing
		changes := applyPatch(&updated, patch)
		if err := updated.Validate(); err != nil {
			return validationf("%v", err)
		}
		// Re-sent dates still propagate, so a task can be re-asserted after
		// auto-scheduling is switched on.
		if len(changes) == 0 && !patch.TouchesDates() {
			return nil
		}
		if len(changes) > 0 {
			updated.UpdatedAt = time.Now().UTC()
			if err := r.tasks.Update(ctx, &updated); err != nil {
				return err
			}
			for _, c := range changes {
				if c.field == "assignees" {
					if err := r.tasks.SetAssignees(ctx, id, updated.AssigneeIDs); err != nil {
						return err
					}
				}
				if err := r.logChange(ctx, domain.EntityTask, id, actor, c.field, c.before, c.after); err != nil {
					return err
				}
			}
		}

		project, err := r.liveProject(ctx, existing.ProjectID)
		if err != nil {
			return err
		}
		engine := r.engine()
		if project.AutoSchedule && patch.TouchesDates() {
			if affected, err = engine.PropagateSchedule(ctx, project.ID, id, actor); err != nil {
				return err
			}
			if err := reaggregateParents(ctx, engine, affected); err != nil {
				return err
			}
		}
		if existing.ParentID != nil {
			return engine.RecalculateSummary(ctx, *existing.ParentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["affected"] = len(affected)

	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Task: view, Affected: affected}, nil
}

// applyPatch writes patch onto t and returns the field changes it made.
// Done status forces progress to 100, and milestones keep a single date.
func applyPatch(t *domain.Task, patch TaskPatch) []fieldChange {
	before := *t
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.ClearStart {
		t.StartDate = nil
	}
	if patch.ClearEnd {
		t.EndDate = nil
	}
	if patch.StartDate != nil {
		t.StartDate = domain.DatePtr(*patch.StartDate)
	}
	if patch.EndDate != nil {
		t.EndDate = domain.DatePtr(*patch.EndDate)
	}
	if t.Type == domain.TaskTypeMilestone && patch.EndDate != nil && patch.StartDate == nil {
		t.StartDate = domain.DatePtr(*patch.EndDate)
	}
	t.NormalizeMilestone()
	if patch.Progress != nil {
		t.Progress = *patch.Progress
	}
	if patch.Status != nil {
		t.ApplyStatus(*patch.Status)
	}
	if patch.ClearEstimate {
		t.EstimatePd = nil
	}
	if patch.EstimatePd != nil {
		v := *patch.EstimatePd
		t.EstimatePd = &v
	}
	if patch.AssigneeIDs != nil {
		t.AssigneeIDs = domain.NormalizeAssignees(*patch.AssigneeIDs)
	}

	var changes []fieldChange
	add := func(field string, b, a *string) {
		if (b == nil) != (a == nil) || (b != nil && *b != *a) {
			changes = append(changes, fieldChange{field: field, before: b, after: a})
		}
	}
	add("title", strPtr(before.Title), strPtr(t.Title))
	add("description", strPtr(before.Description), strPtr(t.Description))
	add("priority", strPtr(before.Priority), strPtr(t.Priority))
	add("startDate", optDate(before.StartDate), optDate(t.StartDate))
	add("endDate", optDate(before.EndDate), optDate(t.EndDate))
	add("progress", strPtr(strconv.Itoa(before.Progress)), strPtr(strconv.Itoa(t.Progress)))
	add("status", strPtr(string(before.Status)), strPtr(string(t.Status)))
	add("estimatePd", optFloat(before.EstimatePd), optFloat(t.EstimatePd))
	add("assignees", optList(before.AssigneeIDs), optList(t.AssigneeIDs))
	return changes
}

func optDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return strPtr(domain.FormatDate(t))
}

func optList(ids []string) *string {
	if len(ids) == 0 {
		return nil
	}
	return strPtr(strings.Join(ids, ","))
}

func optFloat(f *float64) *string {
	if f == nil {
		return nil
	}
	return strPtr(strconv.FormatFloat(*f, 'f', -1, 64))
}

func (s *taskService) Delete(ctx context.Context, id string, actor string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "task-delete", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		task, err := r.liveTask(ctx, id)
		if err != nil {
			return err
		}
		if err := r.tasks.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			return err
		}
		before := jsonString(map[string]any{"title": task.Title})
		if err := r.logChange(ctx, domain.EntityTask, id, actor, "deleted", before, nil); err != nil {
			return err
		}
		if task.ParentID != nil {
			return r.engine().RecalculateSummary(ctx, *task.ParentID)
		}
		return nil
	})
}

func (s *taskService) Move(ctx context.Context, id string, newParentID, afterTaskID *string, actor string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "task-move", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		task, err := r.liveTask(ctx, id)
		if err != nil {
			return err
		}

		if newParentID != nil {
			parent, err := r.liveTask(ctx, *newParentID)
			if err != nil {
				return fmt.Errorf("new parent %w", err)
			}
			if parent.ProjectID != task.ProjectID {
				return notFoundf("new parent task %s in project %s", parent.ID, task.ProjectID)
			}
			descendant, err := isDescendant(ctx, r.tasks, parent.ID, id)
			if err != nil {
				return err
			}
			if descendant {
				return validationf("cannot move task to its own descendant")
			}
		}

		newIndex := 0
		if afterTaskID != nil {
			after, err := r.liveTask(ctx, *afterTaskID)
			if err != nil {
				return fmt.Errorf("after %w", err)
			}
			if after.ProjectID != task.ProjectID || !sameParent(after.ParentID, newParentID) {
				return validationf("after task %s is not a sibling at the target level", after.ID)
			}
			newIndex = after.OrderIndex + 1
		}
		if err := r.tasks.ShiftOrder(ctx, task.ProjectID, newParentID, newIndex); err != nil {
			return err
		}

		oldParentID := task.ParentID
		before := jsonString(map[string]any{"parentId": oldParentID, "orderIndex": task.OrderIndex})
		task.ParentID = newParentID
		task.OrderIndex = newIndex
		task.UpdatedAt = time.Now().UTC()
		if err := r.tasks.Update(ctx, task); err != nil {
			return err
		}
		after := jsonString(map[string]any{"parentId": newParentID, "orderIndex": newIndex})
		if err := r.logChange(ctx, domain.EntityTask, id, actor, "moved", before, after); err != nil {
			return err
		}

		engine := r.engine()
		if oldParentID != nil {
			if err := engine.RecalculateSummary(ctx, *oldParentID); err != nil {
				return err
			}
		}
		if newParentID != nil {
			return engine.RecalculateSummary(ctx, *newParentID)
		}
		return nil
	})
}

// isDescendant reports whether candidateID is ancestorID or sits below it.
func isDescendant(ctx context.Context, tasks repository.TaskRepo, candidateID, ancestorID string) (bool, error) {
	visited := make(map[string]bool)
	for cur := candidateID; cur != "" && !visited[cur]; {
		if cur == ancestorID {
			return true, nil
		}
		visited[cur] = true
		t, err := tasks.GetByID(ctx, cur)
		if err != nil {
			return false, classify(err, "task "+cur)
		}
		cur = ""
		if t.ParentID != nil {
			cur = *t.ParentID
		}
	}
	return false, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
