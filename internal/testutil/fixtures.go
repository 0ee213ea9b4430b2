package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/google/uuid"
)

var testCodeCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithAutoSchedule(on bool) ProjectOption {
	return func(p *domain.Project) {
		p.AutoSchedule = on
	}
}

func WithCode(code string) ProjectOption {
	return func(p *domain.Project) {
		p.Code = code
	}
}

func WithProjectDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &start
		p.EndDate = &end
	}
}

func defaultCode(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testCodeCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n%10000)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Code:      defaultCode(name),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskType(k domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = k
	}
}

func AsSummary() TaskOption {
	return WithTaskType(domain.TaskTypeSummary)
}

func WithParentID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

// WithDates sets both dates from YYYY-MM-DD strings. It panics on malformed
// input since fixtures are static.
func WithDates(start, end string) TaskOption {
	return func(t *domain.Task) {
		s := MustDate(start)
		e := MustDate(end)
		t.StartDate = &s
		t.EndDate = &e
	}
}

func WithEstimate(pd float64) TaskOption {
	return func(t *domain.Task) {
		t.EstimatePd = &pd
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithAssignees(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeIDs = ids
	}
}

func WithOrderIndex(i int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = i
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Type:      domain.TaskTypeTask,
		Title:     title,
		Status:    domain.StatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestDependency(projectID, predecessorID, successorID string, lagDays int) *domain.Dependency {
	return &domain.Dependency{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		PredecessorTaskID: predecessorID,
		SuccessorTaskID:   successorID,
		Type:              domain.DependencyFS,
		LagDays:           lagDays,
		CreatedAt:         time.Now().UTC(),
	}
}

// MustDate parses a YYYY-MM-DD string or panics.
func MustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DatePtr parses a YYYY-MM-DD string into a pointer, or panics.
func DatePtr(s string) *time.Time {
	d := MustDate(s)
	return &d
}
