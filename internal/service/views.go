package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/scheduling"
)

// numberTasks orders live tasks depth-first by WBS position and assigns
// numbers like "1", "1.2", "1.2.3". Live tasks whose parent is not live are
// numbered as roots. Deleted tasks follow unnumbered.
func numberTasks(tasks []*domain.Task) []*TaskView {
	live := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if !t.IsDeleted() {
			live[t.ID] = true
		}
	}

	children := make(map[string][]*domain.Task)
	var deleted []*domain.Task
	for _, t := range tasks {
		if t.IsDeleted() {
			deleted = append(deleted, t)
			continue
		}
		key := ""
		if t.ParentID != nil && live[*t.ParentID] {
			key = *t.ParentID
		}
		children[key] = append(children[key], t)
	}
	for _, list := range children {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].OrderIndex != list[j].OrderIndex {
				return list[i].OrderIndex < list[j].OrderIndex
			}
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}

	views := make([]*TaskView, 0, len(tasks))
	var walk func(parentID, prefix string, depth int)
	walk = func(parentID, prefix string, depth int) {
		for i, t := range children[parentID] {
			num := strconv.Itoa(i + 1)
			if prefix != "" {
				num = prefix + "." + num
			}
			views = append(views, &TaskView{Task: t, WBS: num, Depth: depth})
			walk(t.ID, num, depth+1)
		}
	}
	walk("", "", 0)

	for _, t := range deleted {
		views = append(views, &TaskView{Task: t})
	}
	return views
}

// projectViews loads a project's tasks with WBS numbers, actual effort and
// schedule warnings.
func projectViews(ctx context.Context, tasks repository.TaskRepo, deps repository.DependencyRepo, timeLogs repository.TimeLogRepo, projectID string, includeDeleted bool) ([]*TaskView, error) {
	all, err := tasks.ListByProject(ctx, projectID, includeDeleted)
	if err != nil {
		return nil, err
	}
	edges, err := deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	actual, err := timeLogs.SumByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	warnings := scheduling.EvaluateProject(all, edges)
	views := numberTasks(all)
	for _, v := range views {
		v.ActualPd = actual[v.ID]
		v.Warnings = warnings[v.ID]
	}
	return views, nil
}

func findView(views []*TaskView, id string) (*TaskView, error) {
	for _, v := range views {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
}
