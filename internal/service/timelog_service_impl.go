package service

import (
	"context"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/google/uuid"
)

type timeLogService struct {
	timeLogs repository.TimeLogRepo
	uow      db.UnitOfWork
}

func NewTimeLogService(timeLogs repository.TimeLogRepo, uow db.UnitOfWork) TimeLogService {
	return &timeLogService{timeLogs: timeLogs, uow: uow}
}

func (s *timeLogService) Log(ctx context.Context, taskID string, workDate time.Time, pd float64, note, actor string) (*domain.TimeLog, error) {
	if pd <= 0 {
		return nil, validationf("person-days must be positive, got %g", pd)
	}
	entry := &domain.TimeLog{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    actor,
		WorkDate:  domain.Date(workDate),
		Pd:        pd,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.liveTask(ctx, taskID); err != nil {
			return err
		}
		return r.timeLogs.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeLogService) ListByTask(ctx context.Context, taskID string, from, to *time.Time) ([]*domain.TimeLog, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, validationf("range end is before range start")
	}
	return s.timeLogs.ListByTask(ctx, taskID, from, to)
}

func (s *timeLogService) ActualPd(ctx context.Context, taskID string) (float64, error) {
	return s.timeLogs.SumByTask(ctx, taskID)
}
