package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/google/uuid"
)

type deliverableService struct {
	deliverables repository.DeliverableRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewDeliverableService(deliverables repository.DeliverableRepo, uow db.UnitOfWork, observers ...UseCaseObserver) DeliverableService {
	return &deliverableService{
		deliverables: deliverables,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *deliverableService) Create(ctx context.Context, projectID string, in DeliverableInput, actor string) (d *domain.Deliverable, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "name": in.Name}
	defer func() { observe(ctx, s.observer, "deliverable-create", startedAt, fields, err) }()

	d = &domain.Deliverable{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(in.Name),
		URL:       strings.TrimSpace(in.URL),
		Type:      in.Type,
		Note:      in.Note,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, validationf("%v", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.liveProject(ctx, projectID); err != nil {
			return err
		}
		if err := r.deliverables.Create(ctx, d); err != nil {
			return err
		}
		created := jsonString(map[string]any{"name": d.Name, "url": d.URL})
		return r.logChange(ctx, domain.EntityDeliverable, d.ID, actor, "created", nil, created)
	})
	if err != nil {
		return nil, err
	}
	fields["deliverable_id"] = d.ID
	return d, nil
}

// LinkToTask attaches a deliverable to a task of the same project. A pair
// can be linked once.
func (s *deliverableService) LinkToTask(ctx context.Context, taskID, deliverableID, actor string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID, "deliverable_id": deliverableID}
	defer func() { observe(ctx, s.observer, "deliverable-link", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		d, err := r.taskDeliverable(ctx, taskID, deliverableID)
		if err != nil {
			return err
		}
		linked, err := r.deliverables.IsLinked(ctx, taskID, deliverableID)
		if err != nil {
			return err
		}
		if linked {
			return conflictf("deliverable %s is already linked to task %s", deliverableID, taskID)
		}
		if err := r.deliverables.Link(ctx, taskID, deliverableID, time.Now().UTC()); err != nil {
			return err
		}
		return r.logChange(ctx, domain.EntityTask, taskID, actor, "deliverable", nil, strPtr(d.Name))
	})
}

func (s *deliverableService) Unlink(ctx context.Context, taskID, deliverableID, actor string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID, "deliverable_id": deliverableID}
	defer func() { observe(ctx, s.observer, "deliverable-unlink", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		d, err := r.taskDeliverable(ctx, taskID, deliverableID)
		if err != nil {
			return err
		}
		if err := r.deliverables.Unlink(ctx, taskID, deliverableID); err != nil {
			return classify(err, "link of deliverable "+deliverableID+" to task "+taskID)
		}
		return r.logChange(ctx, domain.EntityTask, taskID, actor, "deliverable", strPtr(d.Name), nil)
	})
}

func (s *deliverableService) ListByProject(ctx context.Context, projectID string) ([]*domain.Deliverable, error) {
	return s.deliverables.ListByProject(ctx, projectID)
}

func (s *deliverableService) ListByTask(ctx context.Context, taskID string) ([]*domain.Deliverable, error) {
	return s.deliverables.ListByTask(ctx, taskID)
}

// taskDeliverable loads a live task and a deliverable of its project.
func (r *txRepos) taskDeliverable(ctx context.Context, taskID, deliverableID string) (*domain.Deliverable, error) {
	task, err := r.liveTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	d, err := r.deliverables.GetByID(ctx, deliverableID)
	if err != nil {
		return nil, classify(err, "deliverable "+deliverableID)
	}
	if d.ProjectID != task.ProjectID {
		return nil, notFoundf("deliverable %s in project %s", deliverableID, task.ProjectID)
	}
	return d, nil
}
