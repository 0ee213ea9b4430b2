package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// MaxTitleLen bounds task titles.
const MaxTitleLen = 200

type Task struct {
	ID          string
	ProjectID   string
	ParentID    *string
	OrderIndex  int
	Type        TaskType
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Progress    int
	Status      TaskStatus
	Priority    string
	EstimatePd  *float64
	AssigneeIDs []string
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsSummary reports whether the task's dates and progress are derived from children.
func (t *Task) IsSummary() bool {
	return t.Type == TaskTypeSummary
}

// IsDeleted reports whether the task has been soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// HasDates reports whether both start and end dates are set.
func (t *Task) HasDates() bool {
	return t.StartDate != nil && t.EndDate != nil
}

// Weight is the task's contribution to its summary's progress.
// A missing estimate counts as 1.
func (t *Task) Weight() float64 {
	if t.EstimatePd == nil {
		return 1
	}
	return *t.EstimatePd
}

// DurationDays returns endDate - startDate in days, or 0 when undated.
func (t *Task) DurationDays() int {
	if !t.HasDates() {
		return 0
	}
	return DaysBetween(*t.StartDate, *t.EndDate)
}

// NormalizeAssignees trims, de-duplicates and sorts user ids, dropping
// blanks. The result is never nil.
func NormalizeAssignees(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ApplyStatus sets the status, forcing progress to 100 when Done.
func (t *Task) ApplyStatus(s TaskStatus) {
	t.Status = s
	if s == StatusDone {
		t.Progress = 100
	}
}

// NormalizeMilestone collapses a milestone to a single day: when only one of
// the dates is set the other is copied, and the end always equals the start.
func (t *Task) NormalizeMilestone() {
	if t.Type != TaskTypeMilestone {
		return
	}
	switch {
	case t.StartDate != nil:
		d := Date(*t.StartDate)
		t.StartDate = &d
		end := d
		t.EndDate = &end
	case t.EndDate != nil:
		d := Date(*t.EndDate)
		t.EndDate = &d
		start := d
		t.StartDate = &start
	}
}

// Validate checks field-level invariants that do not need storage access.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(t.Title) > MaxTitleLen {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLen)
	}
	if !ValidTaskTypes[string(t.Type)] {
		return fmt.Errorf("invalid task type %q (must be task, summary, or milestone)", t.Type)
	}
	if !ValidTaskStatuses[string(t.Status)] {
		return fmt.Errorf("invalid status %q (must be NotStarted, InProgress, Blocked, or Done)", t.Status)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("progress %d out of range 0-100", t.Progress)
	}
	if t.EstimatePd != nil && *t.EstimatePd < 0 {
		return fmt.Errorf("estimate must be non-negative")
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			t.EndDate.Format(DateLayout), t.StartDate.Format(DateLayout))
	}
	return nil
}
