package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) *time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestApplyStatus_DoneForcesProgress(t *testing.T) {
	task := &Task{Status: StatusInProgress, Progress: 40}
	task.ApplyStatus(StatusDone)
	assert.Equal(t, StatusDone, task.Status)
	assert.Equal(t, 100, task.Progress)
}

func TestApplyStatus_OtherStatusKeepsProgress(t *testing.T) {
	task := &Task{Status: StatusNotStarted, Progress: 40}
	task.ApplyStatus(StatusBlocked)
	assert.Equal(t, 40, task.Progress)
}

func TestWeight_DefaultsToOne(t *testing.T) {
	assert.Equal(t, 1.0, (&Task{}).Weight())
	est := 12.5
	assert.Equal(t, 12.5, (&Task{EstimatePd: &est}).Weight())
}

func TestDurationDays(t *testing.T) {
	task := &Task{StartDate: day("2026-02-11"), EndDate: day("2026-02-15")}
	assert.Equal(t, 4, task.DurationDays())
	assert.Equal(t, 0, (&Task{StartDate: day("2026-02-11")}).DurationDays())
}

func TestNormalizeMilestone_CopiesSingleDate(t *testing.T) {
	m := &Task{Type: TaskTypeMilestone, EndDate: day("2026-03-01")}
	m.NormalizeMilestone()
	require.NotNil(t, m.StartDate)
	assert.Equal(t, "2026-03-01", FormatDate(m.StartDate))

	m = &Task{Type: TaskTypeMilestone, StartDate: day("2026-03-01"), EndDate: day("2026-03-09")}
	m.NormalizeMilestone()
	assert.Equal(t, "2026-03-01", FormatDate(m.EndDate))
}

func TestNormalizeMilestone_IgnoresRegularTasks(t *testing.T) {
	task := &Task{Type: TaskTypeTask, StartDate: day("2026-03-01")}
	task.NormalizeMilestone()
	assert.Nil(t, task.EndDate)
}

func TestValidate(t *testing.T) {
	valid := func() *Task {
		return &Task{Title: "Design", Type: TaskTypeTask, Status: StatusNotStarted}
	}
	require.NoError(t, valid().Validate())

	task := valid()
	task.Title = ""
	assert.ErrorContains(t, task.Validate(), "title")

	task = valid()
	task.Type = "epic"
	assert.ErrorContains(t, task.Validate(), "task type")

	task = valid()
	task.Progress = 101
	assert.ErrorContains(t, task.Validate(), "progress")

	task = valid()
	task.StartDate, task.EndDate = day("2026-01-10"), day("2026-01-05")
	assert.ErrorContains(t, task.Validate(), "before start")
}

func TestMinSuccessorStart(t *testing.T) {
	got := MinSuccessorStart(*day("2026-02-10"), 2)
	assert.Equal(t, "2026-02-13", got.Format(DateLayout))
	got = MinSuccessorStart(*day("2026-02-28"), 0)
	assert.Equal(t, "2026-03-01", got.Format(DateLayout))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 5, DaysBetween(*day("2026-01-01"), *day("2026-01-06")))
	assert.Equal(t, -1, DaysBetween(*day("2026-01-02"), *day("2026-01-01")))
}

func TestNormalizeAssignees(t *testing.T) {
	assert.Equal(t, []string{"ana", "bob"}, NormalizeAssignees([]string{" bob", "ana", "", "bob"}))
	assert.NotNil(t, NormalizeAssignees(nil))
	assert.Empty(t, NormalizeAssignees([]string{"  "}))
}

func TestDeliverableValidate(t *testing.T) {
	ok := Deliverable{Name: "Spec", URL: "https://example.com/spec.pdf"}
	assert.NoError(t, ok.Validate())

	for name, d := range map[string]Deliverable{
		"no name":      {URL: "https://example.com"},
		"relative url": {Name: "Spec", URL: "docs/spec.pdf"},
		"no url":       {Name: "Spec"},
	} {
		assert.Error(t, d.Validate(), name)
	}
}
