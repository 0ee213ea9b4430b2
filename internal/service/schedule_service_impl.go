package service

import (
	"context"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

type scheduleService struct {
	conn     db.DBTX
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewScheduleService runs read-only checks on conn and every write inside
// uow.
func NewScheduleService(conn db.DBTX, uow db.UnitOfWork, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{conn: conn, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// WouldCreateCycle checks a proposed edge without writing. Both tasks must
// be live tasks of projectID.
func (s *scheduleService) WouldCreateCycle(ctx context.Context, projectID, predecessorID, successorID string) (bool, error) {
	r := newTxRepos(s.conn)
	if _, err := r.liveProject(ctx, projectID); err != nil {
		return false, err
	}
	if _, err := r.liveTasksIn(ctx, projectID, predecessorID, successorID); err != nil {
		return false, err
	}
	return r.engine().WouldCreateCycle(ctx, predecessorID, successorID, projectID)
}

// Propagate pushes taskID's schedule onto its successors regardless of the
// project's auto-schedule flag.
func (s *scheduleService) Propagate(ctx context.Context, taskID, actor string) (affected []*domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID}
	defer func() { observe(ctx, s.observer, "schedule-propagate", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		task, err := r.liveTask(ctx, taskID)
		if err != nil {
			return err
		}
		engine := r.engine()
		if affected, err = engine.PropagateSchedule(ctx, task.ProjectID, taskID, actor); err != nil {
			return err
		}
		return reaggregateParents(ctx, engine, affected)
	})
	fields["affected"] = len(affected)
	return affected, err
}

func (s *scheduleService) RecalculateSummary(ctx context.Context, summaryID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": summaryID}
	defer func() { observe(ctx, s.observer, "summary-recalculate", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.liveTask(ctx, summaryID); err != nil {
			return err
		}
		return r.engine().RecalculateSummary(ctx, summaryID)
	})
}

func (s *scheduleService) RecalculateProject(ctx context.Context, projectID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID}
	defer func() { observe(ctx, s.observer, "project-recalculate", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.liveProject(ctx, projectID); err != nil {
			return err
		}
		return r.engine().RecalculateProject(ctx, projectID)
	})
}
