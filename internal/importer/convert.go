package importer

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/google/uuid"
)

// Plan is a converted import ready for persistence. Tasks are ordered so
// that every parent precedes its children.
type Plan struct {
	Project      *domain.Project
	Tasks        []*domain.Task
	Dependencies []*domain.Dependency
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*Plan, error) {
	now := time.Now().UTC()

	projStart, err := domain.ParseOptionalDate(deref(schema.Project.StartDate))
	if err != nil {
		return nil, fmt.Errorf("parsing project start_date: %w", err)
	}
	projEnd, err := domain.ParseOptionalDate(deref(schema.Project.EndDate))
	if err != nil {
		return nil, fmt.Errorf("parsing project end_date: %w", err)
	}

	project := &domain.Project{
		ID:           uuid.New().String(),
		Code:         strings.ToUpper(schema.Project.Code),
		Name:         schema.Project.Name,
		Description:  schema.Project.Description,
		StartDate:    projStart,
		EndDate:      projEnd,
		AutoSchedule: schema.Project.AutoSchedule,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	refMap := make(map[string]string) // ref -> UUID
	nextOrder := make(map[string]int) // parent ref ("" for root) -> next order index

	tasks := make([]*domain.Task, 0, len(schema.Tasks))
	for _, ti := range schema.Tasks {
		realID := uuid.New().String()
		refMap[ti.Ref] = realID

		var parentID *string
		parentRef := deref(ti.ParentRef)
		if parentRef != "" {
			pid, ok := refMap[parentRef]
			if !ok {
				return nil, fmt.Errorf("task %q: parent ref %q not found", ti.Ref, parentRef)
			}
			parentID = &pid
		}

		start, err := domain.ParseOptionalDate(deref(ti.StartDate))
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", ti.Ref, err)
		}
		end, err := domain.ParseOptionalDate(deref(ti.EndDate))
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", ti.Ref, err)
		}

		task := &domain.Task{
			ID:          realID,
			ProjectID:   project.ID,
			ParentID:    parentID,
			OrderIndex:  nextOrder[parentRef],
			Type:        cmp.Or(domain.TaskType(ti.Type), domain.TaskTypeTask),
			Title:       ti.Title,
			Description: ti.Description,
			Priority:    ti.Priority,
			StartDate:   start,
			EndDate:     end,
			Progress:    derefOr(ti.Progress, 0),
			EstimatePd:  ti.EstimatePd,
			AssigneeIDs: domain.NormalizeAssignees(ti.Assignees),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		nextOrder[parentRef]++
		task.ApplyStatus(cmp.Or(domain.TaskStatus(ti.Status), domain.StatusNotStarted))
		task.NormalizeMilestone()
		tasks = append(tasks, task)
	}

	deps := make([]*domain.Dependency, 0, len(schema.Dependencies))
	for _, d := range schema.Dependencies {
		predID, ok := refMap[d.PredecessorRef]
		if !ok {
			return nil, fmt.Errorf("dependency predecessor ref %q not found", d.PredecessorRef)
		}
		succID, ok := refMap[d.SuccessorRef]
		if !ok {
			return nil, fmt.Errorf("dependency successor ref %q not found", d.SuccessorRef)
		}
		deps = append(deps, &domain.Dependency{
			ID:                uuid.New().String(),
			ProjectID:         project.ID,
			PredecessorTaskID: predID,
			SuccessorTaskID:   succID,
			Type:              cmp.Or(domain.DependencyType(d.Type), domain.DependencyFS),
			LagDays:           d.LagDays,
			CreatedAt:         now,
		})
	}

	return &Plan{
		Project:      project,
		Tasks:        tasks,
		Dependencies: deps,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
