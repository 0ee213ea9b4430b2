package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/importer"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/scheduling"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath, actor string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema, actor)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema, actor string) (*ImportResult, error) {
	return s.importSchema(ctx, schema, actor)
}

// importSchema persists the whole plan in one transaction, then rolls up
// summaries and, for auto-scheduled projects, pushes every successor chain.
func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema, actor string) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"code": schema.Project.Code, "tasks": len(schema.Tasks)}
	defer func() { observe(ctx, s.observer, "project-import", startedAt, fields, err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	var affected []*domain.Task
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.projects.GetByCode(ctx, plan.Project.Code); err == nil {
			return conflictf("project code %s is already in use", plan.Project.Code)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := r.projects.Create(ctx, plan.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, task := range plan.Tasks {
			if err := r.tasks.Create(ctx, task); err != nil {
				return fmt.Errorf("creating task %q: %w", task.Title, err)
			}
		}
		for _, dep := range plan.Dependencies {
			if err := r.deps.Create(ctx, dep); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}

		imported := jsonString(map[string]any{
			"code":         plan.Project.Code,
			"name":         plan.Project.Name,
			"tasks":        len(plan.Tasks),
			"dependencies": len(plan.Dependencies),
		})
		if err := r.logChange(ctx, domain.EntityProject, plan.Project.ID, actor, "imported", nil, imported); err != nil {
			return err
		}

		engine := r.engine()
		if plan.Project.AutoSchedule {
			affected, err = propagateAll(ctx, engine, plan, actor)
			if err != nil {
				return err
			}
		}
		return engine.RecalculateProject(ctx, plan.Project.ID)
	})
	if err != nil {
		return nil, err
	}

	fields["affected"] = len(affected)
	return &ImportResult{
		Project:         plan.Project,
		TaskCount:       len(plan.Tasks),
		DependencyCount: len(plan.Dependencies),
		Affected:        affected,
	}, nil
}

// propagateAll runs propagation from each distinct predecessor in edge order
// and merges the moved tasks, keeping first-moved order and final dates.
func propagateAll(ctx context.Context, engine *scheduling.Engine, plan *importer.Plan, actor string) ([]*domain.Task, error) {
	var affected []*domain.Task
	index := make(map[string]int)
	done := make(map[string]bool)
	for _, dep := range plan.Dependencies {
		if done[dep.PredecessorTaskID] {
			continue
		}
		done[dep.PredecessorTaskID] = true
		moved, err := engine.PropagateSchedule(ctx, plan.Project.ID, dep.PredecessorTaskID, actor)
		if err != nil {
			return nil, err
		}
		for _, t := range moved {
			if i, ok := index[t.ID]; ok {
				affected[i] = t
				continue
			}
			index[t.ID] = len(affected)
			affected = append(affected, t)
		}
	}
	return affected, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import has %d errors:", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return fmt.Errorf("%w: %s", ErrValidation, b.String())
}
