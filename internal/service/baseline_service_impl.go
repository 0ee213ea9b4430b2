package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/google/uuid"
)

type baselineService struct {
	baselines repository.BaselineRepo
	tasks     repository.TaskRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewBaselineService(baselines repository.BaselineRepo, tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) BaselineService {
	return &baselineService{baselines: baselines, tasks: tasks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create snapshots every live task of the project.
func (s *baselineService) Create(ctx context.Context, projectID, name, actor string) (baseline *domain.Baseline, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "name": name}
	defer func() { observe(ctx, s.observer, "baseline-create", startedAt, fields, err) }()

	if strings.TrimSpace(name) == "" {
		return nil, validationf("baseline name is required")
	}
	b := &domain.Baseline{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.liveProject(ctx, projectID); err != nil {
			return err
		}
		tasks, err := r.tasks.ListByProject(ctx, projectID, false)
		if err != nil {
			return err
		}
		snapshot := make([]domain.BaselineTask, 0, len(tasks))
		for _, t := range tasks {
			snapshot = append(snapshot, domain.SnapshotTask(b.ID, t))
		}
		if err := r.baselines.Create(ctx, b, snapshot); err != nil {
			return err
		}
		fields["task_count"] = len(tasks)
		created := jsonString(map[string]any{"name": b.Name, "taskCount": len(tasks)})
		return r.logChange(ctx, domain.EntityBaseline, b.ID, actor, "created", nil, created)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *baselineService) List(ctx context.Context, projectID string) ([]*domain.Baseline, error) {
	return s.baselines.ListByProject(ctx, projectID)
}

// Diff compares a baseline with the current live tasks. Tasks deleted since
// the baseline, and tasks added after it, are left out.
func (s *baselineService) Diff(ctx context.Context, baselineID string) (*BaselineDiff, error) {
	b, err := s.baselines.GetByID(ctx, baselineID)
	if err != nil {
		return nil, classify(err, "baseline "+baselineID)
	}
	snapshot, err := s.baselines.ListTasks(ctx, baselineID)
	if err != nil {
		return nil, err
	}
	current, err := s.tasks.ListByProject(ctx, b.ProjectID, false)
	if err != nil {
		return nil, err
	}
	return diffBaseline(b, snapshot, current), nil
}

func diffBaseline(b *domain.Baseline, snapshot []domain.BaselineTask, current []*domain.Task) *BaselineDiff {
	byID := make(map[string]*domain.Task, len(current))
	order := make(map[string]int, len(current))
	for i, t := range current {
		byID[t.ID] = t
		order[t.ID] = i
	}

	diff := &BaselineDiff{Baseline: b}
	for _, bt := range snapshot {
		cur, ok := byID[bt.TaskID]
		if !ok {
			continue
		}
		item := BaselineDiffItem{
			TaskID:        bt.TaskID,
			TaskTitle:     cur.Title,
			BaselineStart: bt.StartDate,
			BaselineEnd:   bt.EndDate,
			CurrentStart:  cur.StartDate,
			CurrentEnd:    cur.EndDate,
		}
		if bt.EndDate != nil && cur.EndDate != nil {
			d := domain.DaysBetween(*bt.EndDate, *cur.EndDate)
			item.DeltaDays = &d
			if d > 0 {
				diff.Summary.SlippedTasks++
				diff.Summary.TotalDeltaDays += d
			}
		}
		if bt.EstimatePd != nil && cur.EstimatePd != nil {
			d := *cur.EstimatePd - *bt.EstimatePd
			item.DeltaPd = &d
			diff.Summary.DeltaPd += d
		}
		diff.Items = append(diff.Items, item)
	}
	sort.SliceStable(diff.Items, func(i, j int) bool {
		return order[diff.Items[i].TaskID] < order[diff.Items[j].TaskID]
	})
	return diff
}
