package scheduling

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbs/internal/domain"
)

// PropagateSchedule pushes changedTaskID's schedule onto its finish-to-start
// successors, cascading through every successor it moves. Dates only ever
// move later. The returned tasks are every successor that moved, in the
// order they first moved, carrying their final dates.
func (e *Engine) PropagateSchedule(ctx context.Context, projectID, changedTaskID, actor string) ([]*domain.Task, error) {
	tasks, err := e.store.FindTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	p := &propagation{
		engine:    e,
		projectID: projectID,
		actor:     actor,
		limit:     len(tasks),
		affected:  make(map[string]*domain.Task),
	}
	if err := p.run(ctx, changedTaskID, 0); err != nil {
		return nil, err
	}
	out := make([]*domain.Task, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.affected[id])
	}
	return out, nil
}

type propagation struct {
	engine    *Engine
	projectID string
	actor     string
	limit     int
	order     []string
	affected  map[string]*domain.Task
}

func (p *propagation) run(ctx context.Context, taskID string, depth int) error {
	if depth > p.limit {
		return fmt.Errorf("task %s: %w", taskID, ErrDepthExceeded)
	}
	store := p.engine.store

	deps, err := store.FindDependenciesByPredecessor(ctx, taskID)
	if err != nil {
		return fmt.Errorf("loading successors of %s: %w", taskID, err)
	}
	for _, dep := range deps {
		// Re-read per edge: an earlier cascade may have moved either end.
		pred, err := store.GetTask(ctx, dep.PredecessorTaskID)
		if err != nil {
			return fmt.Errorf("loading predecessor: %w", err)
		}
		succ, err := store.GetTask(ctx, dep.SuccessorTaskID)
		if err != nil {
			return fmt.Errorf("loading successor: %w", err)
		}
		if pred.IsDeleted() || succ.IsDeleted() || pred.EndDate == nil || !succ.HasDates() {
			continue
		}
		// A summary's range is derived from its children; the edge still
		// shows up as a warning.
		if succ.IsSummary() {
			continue
		}

		minStart := domain.MinSuccessorStart(*pred.EndDate, dep.LagDays)
		if !succ.StartDate.Before(minStart) {
			continue
		}

		beforeStart, beforeEnd := *succ.StartDate, *succ.EndDate
		newStart := minStart
		newEnd := domain.AddDays(newStart, succ.DurationDays())
		if err := store.UpdateTaskDates(ctx, succ.ID, &newStart, &newEnd); err != nil {
			return fmt.Errorf("shifting %s: %w", succ.ID, err)
		}
		succ.StartDate, succ.EndDate = &newStart, &newEnd

		if p.engine.onShift != nil {
			err := p.engine.onShift(ctx, Shift{
				TaskID:      succ.ID,
				ProjectID:   p.projectID,
				Actor:       p.actor,
				BeforeStart: beforeStart,
				BeforeEnd:   beforeEnd,
				AfterStart:  newStart,
				AfterEnd:    newEnd,
			})
			if err != nil {
				return fmt.Errorf("recording shift of %s: %w", succ.ID, err)
			}
		}

		if _, ok := p.affected[succ.ID]; !ok {
			p.order = append(p.order, succ.ID)
		}
		p.affected[succ.ID] = succ

		if err := p.run(ctx, succ.ID, depth+1); err != nil {
			return err
		}
	}
	return nil
}
