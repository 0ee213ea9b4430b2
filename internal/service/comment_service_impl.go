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

type commentService struct {
	comments repository.CommentRepo
	uow      db.UnitOfWork
}

func NewCommentService(comments repository.CommentRepo, uow db.UnitOfWork) CommentService {
	return &commentService{comments: comments, uow: uow}
}

func (s *commentService) Add(ctx context.Context, taskID, body, actor string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, validationf("comment body is required")
	}
	c := &domain.Comment{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    actor,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.liveTask(ctx, taskID); err != nil {
			return err
		}
		return r.comments.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

// Delete hides a comment. The removal is recorded on the owning task.
func (s *commentService) Delete(ctx context.Context, id, actor string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		c, err := r.comments.GetByID(ctx, id)
		if err != nil {
			return classify(err, "comment "+id)
		}
		if c.DeletedAt != nil {
			return notFoundf("comment %s", id)
		}
		if _, err := r.liveTask(ctx, c.TaskID); err != nil {
			return err
		}
		if err := r.comments.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			return err
		}
		return r.logChange(ctx, domain.EntityTask, c.TaskID, actor, "comment", strPtr(c.Body), nil)
	})
}

type changeLogService struct {
	changeLogs repository.ChangeLogRepo
}

func NewChangeLogService(changeLogs repository.ChangeLogRepo) ChangeLogService {
	return &changeLogService{changeLogs: changeLogs}
}

func (s *changeLogService) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.ChangeLog, error) {
	return s.changeLogs.ListByEntity(ctx, entityType, entityID)
}
