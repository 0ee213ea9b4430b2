package service

import (
	"context"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/google/uuid"
)

type dependencyService struct {
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDependencyService(deps repository.DependencyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) DependencyService {
	return &dependencyService{deps: deps, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create adds a finish-to-start edge. All checks run before anything is
// written; when the project auto-schedules, the successor chain is pushed
// to satisfy the new edge.
func (s *dependencyService) Create(ctx context.Context, projectID string, in DependencyInput, actor string) (result *DependencyResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "predecessor": in.PredecessorID, "successor": in.SuccessorID}
	defer func() { observe(ctx, s.observer, "dependency-create", startedAt, fields, err) }()

	if in.Type == "" {
		in.Type = domain.DependencyFS
	}
	if in.Type != domain.DependencyFS {
		return nil, validationf("dependency type %q is not supported (only FS)", in.Type)
	}
	if in.PredecessorID == in.SuccessorID {
		return nil, conflictf("a task cannot depend on itself")
	}

	dep := &domain.Dependency{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		PredecessorTaskID: in.PredecessorID,
		SuccessorTaskID:   in.SuccessorID,
		Type:              in.Type,
		LagDays:           in.LagDays,
		CreatedAt:         time.Now().UTC(),
	}

	var affected []*domain.Task
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		project, err := r.liveProject(ctx, projectID)
		if err != nil {
			return err
		}
		if _, err := r.liveTasksIn(ctx, projectID, in.PredecessorID, in.SuccessorID); err != nil {
			return err
		}

		engine := r.engine()
		cyclic, err := engine.WouldCreateCycle(ctx, in.PredecessorID, in.SuccessorID, projectID)
		if err != nil {
			return err
		}
		if cyclic {
			return conflictf("dependency %s -> %s would create a cycle", in.PredecessorID, in.SuccessorID)
		}
		exists, err := r.deps.Exists(ctx, in.PredecessorID, in.SuccessorID)
		if err != nil {
			return err
		}
		if exists {
			return conflictf("dependency %s -> %s already exists", in.PredecessorID, in.SuccessorID)
		}

		if err := r.deps.Create(ctx, dep); err != nil {
			return err
		}
		created := jsonString(map[string]any{
			"predecessorTaskId": dep.PredecessorTaskID,
			"successorTaskId":   dep.SuccessorTaskID,
			"type":              dep.Type,
			"lagDays":           dep.LagDays,
		})
		if err := r.logChange(ctx, domain.EntityDependency, dep.ID, actor, "created", nil, created); err != nil {
			return err
		}

		if project.AutoSchedule {
			if affected, err = engine.PropagateSchedule(ctx, projectID, in.PredecessorID, actor); err != nil {
				return err
			}
			return reaggregateParents(ctx, engine, affected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["affected"] = len(affected)
	return &DependencyResult{Dependency: dep, Affected: affected}, nil
}

func (s *dependencyService) List(ctx context.Context, projectID string) ([]*domain.Dependency, error) {
	return s.deps.ListByProject(ctx, projectID)
}

func (s *dependencyService) Delete(ctx context.Context, id string, actor string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"dependency_id": id}
	defer func() { observe(ctx, s.observer, "dependency-delete", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		dep, err := r.deps.GetByID(ctx, id)
		if err != nil {
			return classify(err, "dependency "+id)
		}
		if err := r.deps.Delete(ctx, id); err != nil {
			return classify(err, "dependency "+id)
		}
		before := jsonString(map[string]any{
			"predecessorTaskId": dep.PredecessorTaskID,
			"successorTaskId":   dep.SuccessorTaskID,
		})
		return r.logChange(ctx, domain.EntityDependency, id, actor, "deleted", before, nil)
	})
}
