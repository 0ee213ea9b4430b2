package scheduling

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Rollup is the derived state of a summary task.
type Rollup struct {
	StartDate *time.Time
	EndDate   *time.Time
	Progress  int
}

// Aggregate computes a summary's rollup from its live children. ok is false
// when there is nothing to aggregate from.
func Aggregate(children []*domain.Task) (r Rollup, ok bool) {
	var totalWeight, weighted float64
	for _, c := range children {
		if c.IsDeleted() {
			continue
		}
		ok = true
		if c.StartDate != nil && (r.StartDate == nil || c.StartDate.Before(*r.StartDate)) {
			r.StartDate = domain.DatePtr(*c.StartDate)
		}
		if c.EndDate != nil && (r.EndDate == nil || c.EndDate.After(*r.EndDate)) {
			r.EndDate = domain.DatePtr(*c.EndDate)
		}
		w := c.Weight()
		totalWeight += w
		weighted += float64(c.Progress) * w
	}
	if totalWeight > 0 {
		r.Progress = int(math.Round(weighted / totalWeight))
	}
	return r, ok
}

// RecalculateSummary refreshes summaryID's dates and progress from its
// children, then walks up the ancestor chain doing the same. A task that is
// not a summary, or a summary with no live children, is left untouched and
// stops the walk.
func (e *Engine) RecalculateSummary(ctx context.Context, summaryID string) error {
	seen := make(map[string]bool)
	for id := summaryID; id != ""; {
		if seen[id] {
			return fmt.Errorf("task %s: parent chain loops", id)
		}
		seen[id] = true

		summary, err := e.store.GetTask(ctx, id)
		if err != nil {
			return fmt.Errorf("loading summary: %w", err)
		}
		if !summary.IsSummary() || summary.IsDeleted() {
			return nil
		}

		children, err := e.store.FindChildren(ctx, id)
		if err != nil {
			return fmt.Errorf("loading children of %s: %w", id, err)
		}
		r, ok := Aggregate(children)
		if !ok {
			return nil
		}
		if err := e.store.UpdateSummaryFields(ctx, id, r.StartDate, r.EndDate, r.Progress); err != nil {
			return fmt.Errorf("updating summary %s: %w", id, err)
		}

		id = ""
		if summary.ParentID != nil {
			id = *summary.ParentID
		}
	}
	return nil
}

// RecalculateProject re-aggregates every summary in the project, deepest
// first, so each parent sees its children's fresh rollups.
func (e *Engine) RecalculateProject(ctx context.Context, projectID string) error {
	tasks, err := e.store.FindTasksByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	depth := func(t *domain.Task) int {
		d := 0
		for p := t.ParentID; p != nil && d <= len(tasks); d++ {
			parent, ok := byID[*p]
			if !ok {
				break
			}
			p = parent.ParentID
		}
		return d
	}

	var summaries []*domain.Task
	depths := make(map[string]int)
	for _, t := range tasks {
		if t.IsSummary() && !t.IsDeleted() {
			summaries = append(summaries, t)
			depths[t.ID] = depth(t)
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return depths[summaries[i].ID] > depths[summaries[j].ID]
	})

	for _, s := range summaries {
		children, err := e.store.FindChildren(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("loading children of %s: %w", s.ID, err)
		}
		r, ok := Aggregate(children)
		if !ok {
			continue
		}
		if err := e.store.UpdateSummaryFields(ctx, s.ID, r.StartDate, r.EndDate, r.Progress); err != nil {
			return fmt.Errorf("updating summary %s: %w", s.ID, err)
		}
	}
	return nil
}
