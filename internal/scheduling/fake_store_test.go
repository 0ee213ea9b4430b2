package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("not found")

// memStore is an in-memory Store. Tasks are kept in a flat map addressed
// by id; dependencies in insertion order.
type memStore struct {
	tasks  map[string]*domain.Task
	deps   []*domain.Dependency
	writes int
}

func newMemStore() *memStore {
	return &memStore{tasks: make(map[string]*domain.Task)}
}

func (s *memStore) add(t *domain.Task) *domain.Task {
	s.tasks[t.ID] = t
	return t
}

func (s *memStore) link(pred, succ string, lag int) {
	s.deps = append(s.deps, &domain.Dependency{
		ID:                fmt.Sprintf("%s->%s", pred, succ),
		ProjectID:         "p1",
		PredecessorTaskID: pred,
		SuccessorTaskID:   succ,
		Type:              domain.DependencyFS,
		LagDays:           lag,
	})
}

func (s *memStore) live(id string) bool {
	t, ok := s.tasks[id]
	return ok && !t.IsDeleted()
}

func (s *memStore) GetTask(_ context.Context, id string) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, errMissing)
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) FindChildren(_ context.Context, parentID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.ParentID != nil && *t.ParentID == parentID && !t.IsDeleted() {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (s *memStore) FindTasksByProject(_ context.Context, projectID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID && !t.IsDeleted() {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) FindDependenciesByPredecessor(_ context.Context, taskID string) ([]*domain.Dependency, error) {
	var out []*domain.Dependency
	for _, d := range s.deps {
		if d.PredecessorTaskID == taskID && s.live(d.PredecessorTaskID) && s.live(d.SuccessorTaskID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) FindDependenciesByProject(_ context.Context, projectID string) ([]*domain.Dependency, error) {
	var out []*domain.Dependency
	for _, d := range s.deps {
		if d.ProjectID == projectID && s.live(d.PredecessorTaskID) && s.live(d.SuccessorTaskID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) UpdateTaskDates(_ context.Context, id string, start, end *time.Time) error {
	t, ok := s.tasks[id]
	if !ok {
		return errMissing
	}
	s.writes++
	t.StartDate, t.EndDate = start, end
	return nil
}

func (s *memStore) UpdateSummaryFields(_ context.Context, id string, start, end *time.Time, progress int) error {
	t, ok := s.tasks[id]
	if !ok {
		return errMissing
	}
	s.writes++
	t.StartDate, t.EndDate, t.Progress = start, end, progress
	return nil
}

type taskOpt func(*domain.Task)

func dated(start, end string) taskOpt {
	return func(t *domain.Task) {
		if start != "" {
			t.StartDate = day(start)
		}
		if end != "" {
			t.EndDate = day(end)
		}
	}
}

func child(parent string) taskOpt {
	return func(t *domain.Task) { t.ParentID = &parent }
}

func summary() taskOpt {
	return func(t *domain.Task) { t.Type = domain.TaskTypeSummary }
}

func progress(p int, estimate *float64) taskOpt {
	return func(t *domain.Task) {
		t.Progress = p
		t.EstimatePd = estimate
	}
}

func deleted() taskOpt {
	return func(t *domain.Task) {
		now := time.Now()
		t.DeletedAt = &now
	}
}

func task(id string, opts ...taskOpt) *domain.Task {
	t := &domain.Task{ID: id, ProjectID: "p1", Type: domain.TaskTypeTask, Title: id, Status: domain.StatusNotStarted}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func day(s string) *time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func pd(v float64) *float64 { return &v }

func requireDates(t *testing.T, s *memStore, id, start, end string) {
	t.Helper()
	got := s.tasks[id]
	require.NotNil(t, got)
	require.Equal(t, start, domain.FormatDate(got.StartDate), "%s start", id)
	require.Equal(t, end, domain.FormatDate(got.EndDate), "%s end", id)
}
