package scheduling

import (
	"github.com/alexanderramin/wbs/internal/domain"
)

// Warnings is the read-time schedule health of one task.
type Warnings struct {
	HasWarning bool
	Kinds      []domain.ScheduleWarning
}

// Has reports whether kind is among the warnings.
func (w Warnings) Has(kind domain.ScheduleWarning) bool {
	for _, k := range w.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// EvaluateWarnings checks task against the dependencies in which it is the
// successor. predecessors maps task id to task for every predecessor the
// caller could load; edges with an unknown or deleted predecessor, and
// edges where the task is not the successor, are ignored.
func EvaluateWarnings(task *domain.Task, deps []*domain.Dependency, predecessors map[string]*domain.Task) Warnings {
	var w Warnings
	if task == nil || task.IsDeleted() {
		return w
	}
	add := func(kind domain.ScheduleWarning) {
		if !w.Has(kind) {
			w.Kinds = append(w.Kinds, kind)
		}
	}

	for _, d := range deps {
		if d.SuccessorTaskID != task.ID {
			continue
		}
		pred, ok := predecessors[d.PredecessorTaskID]
		if !ok || pred.IsDeleted() {
			continue
		}
		if !task.HasDates() {
			add(domain.WarningMissingDates)
			continue
		}
		if pred.EndDate == nil {
			continue
		}
		if task.StartDate.Before(domain.MinSuccessorStart(*pred.EndDate, d.LagDays)) {
			add(domain.WarningViolation)
		}
	}
	w.HasWarning = len(w.Kinds) > 0
	return w
}

// EvaluateProject computes warnings for every task in tasks against deps,
// keyed by task id. Tasks with no warnings are omitted.
func EvaluateProject(tasks []*domain.Task, deps []*domain.Dependency) map[string]Warnings {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	incoming := make(map[string][]*domain.Dependency)
	for _, d := range deps {
		incoming[d.SuccessorTaskID] = append(incoming[d.SuccessorTaskID], d)
	}
	out := make(map[string]Warnings)
	for id, in := range incoming {
		t, ok := byID[id]
		if !ok {
			continue
		}
		if w := EvaluateWarnings(t, in, byID); w.HasWarning {
			out[id] = w
		}
	}
	return out
}
