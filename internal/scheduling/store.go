// Package scheduling keeps a project's task hierarchy and dependency
// schedule consistent: summary rollups, cycle checks, finish-to-start
// propagation and read-time warnings.
package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

// ErrDepthExceeded is returned when a propagation cascade runs deeper than
// the project has tasks, which only happens if the stored graph is cyclic.
var ErrDepthExceeded = errors.New("schedule propagation exceeded depth limit")

// Store is the data access the engine needs. Dependency queries must only
// return edges whose predecessor and successor are both live tasks.
type Store interface {
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	FindChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	FindTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	FindDependenciesByPredecessor(ctx context.Context, taskID string) ([]*domain.Dependency, error)
	FindDependenciesByProject(ctx context.Context, projectID string) ([]*domain.Dependency, error)
	UpdateTaskDates(ctx context.Context, taskID string, start, end *time.Time) error
	UpdateSummaryFields(ctx context.Context, taskID string, start, end *time.Time, progress int) error
}

// Shift describes one successor moved by propagation.
type Shift struct {
	TaskID      string
	ProjectID   string
	Actor       string
	BeforeStart time.Time
	BeforeEnd   time.Time
	AfterStart  time.Time
	AfterEnd    time.Time
}

// ShiftHook is called after each successor shift is persisted.
type ShiftHook func(ctx context.Context, s Shift) error

// Engine runs the scheduling algorithms against a Store. An Engine is
// cheap to build and is usually created per transaction.
type Engine struct {
	store   Store
	onShift ShiftHook
}

type Option func(*Engine)

// WithShiftHook registers a callback for every auto-scheduled shift.
func WithShiftHook(h ShiftHook) Option {
	return func(e *Engine) {
		e.onShift = h
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
