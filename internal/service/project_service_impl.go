package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project, actor string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"code": p.Code}
	defer func() { observe(ctx, s.observer, "project-create", startedAt, fields, err) }()

	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if strings.TrimSpace(p.Name) == "" {
		return validationf("project name is required")
	}
	if err := p.ValidateCode(); err != nil {
		return validationf("%v", err)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return validationf("project end date is before its start date")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.projects.GetByCode(ctx, p.Code); err == nil {
			return conflictf("project code %s is already in use", p.Code)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := r.projects.Create(ctx, p); err != nil {
			return err
		}
		created := jsonString(map[string]any{"code": p.Code, "name": p.Name})
		return r.logChange(ctx, domain.EntityProject, p.ID, actor, "created", nil, created)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "project "+id)
	}
	if p.IsDeleted() {
		return nil, notFoundf("project %s", id)
	}
	return p, nil
}

func (s *projectService) Resolve(ctx context.Context, idOrCode string) (*domain.Project, error) {
	p, err := s.GetByID(ctx, idOrCode)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return p, err
	}
	p, err = s.projects.GetByCode(ctx, idOrCode)
	if err != nil {
		return nil, classify(err, "project "+idOrCode)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, includeDeleted bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeDeleted)
}

func (s *projectService) Update(ctx context.Context, id string, patch ProjectPatch, actor string) (project *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id}
	defer func() { observe(ctx, s.observer, "project-update", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		p, err := r.liveProject(ctx, id)
		if err != nil {
			return err
		}
		var changes []fieldChange
		if patch.Name != nil && *patch.Name != p.Name {
			if strings.TrimSpace(*patch.Name) == "" {
				return validationf("project name is required")
			}
			changes = append(changes, fieldChange{"name", strPtr(p.Name), strPtr(*patch.Name)})
			p.Name = *patch.Name
		}
		if patch.Description != nil && *patch.Description != p.Description {
			changes = append(changes, fieldChange{"description", strPtr(p.Description), strPtr(*patch.Description)})
			p.Description = *patch.Description
		}
		if patch.StartDate != nil && !domain.SameDate(p.StartDate, patch.StartDate) {
			changes = append(changes, fieldChange{"startDate", optDate(p.StartDate), optDate(patch.StartDate)})
			p.StartDate = domain.DatePtr(*patch.StartDate)
		}
		if patch.ClearEndDate && p.EndDate != nil {
			changes = append(changes, fieldChange{"endDate", optDate(p.EndDate), nil})
			p.EndDate = nil
		}
		if patch.EndDate != nil && !domain.SameDate(p.EndDate, patch.EndDate) {
			changes = append(changes, fieldChange{"endDate", optDate(p.EndDate), optDate(patch.EndDate)})
			p.EndDate = domain.DatePtr(*patch.EndDate)
		}
		if patch.AutoSchedule != nil && *patch.AutoSchedule != p.AutoSchedule {
			changes = append(changes, fieldChange{"autoSchedule",
				strPtr(strconv.FormatBool(p.AutoSchedule)), strPtr(strconv.FormatBool(*patch.AutoSchedule))})
			p.AutoSchedule = *patch.AutoSchedule
		}
		if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
			return validationf("project end date is before its start date")
		}

		p.UpdatedAt = time.Now().UTC()
		if err := r.projects.Update(ctx, p); err != nil {
			return err
		}
		for _, c := range changes {
			if err := r.logChange(ctx, domain.EntityProject, id, actor, c.field, c.before, c.after); err != nil {
				return err
			}
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string, actor string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id}
	defer func() { observe(ctx, s.observer, "project-delete", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		p, err := r.liveProject(ctx, id)
		if err != nil {
			return err
		}
		if err := r.projects.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			return err
		}
		before := jsonString(map[string]any{"code": p.Code, "name": p.Name})
		return r.logChange(ctx, domain.EntityProject, id, actor, "deleted", before, nil)
	})
}
