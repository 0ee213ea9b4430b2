package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineService_DiffReportsSlip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, false)

	a := env.task(t, p.ID, TaskInput{Title: "A", StartDate: ptr(day("2026-02-02")), EndDate: ptr(day("2026-02-06")), EstimatePd: ptr(3.0)})
	b := env.task(t, p.ID, TaskInput{Title: "B", StartDate: ptr(day("2026-02-09")), EndDate: ptr(day("2026-02-13")), EstimatePd: ptr(2.0)})
	c := env.task(t, p.ID, TaskInput{Title: "C"})

	base, err := env.Baselines.Create(ctx, p.ID, "Kickoff", testActor)
	require.NoError(t, err)

	_, err = env.Tasks.Update(ctx, a.ID, TaskPatch{EndDate: ptr(day("2026-02-09")), EstimatePd: ptr(4.5)}, testActor)
	require.NoError(t, err)
	_, err = env.Tasks.Update(ctx, b.ID, TaskPatch{StartDate: ptr(day("2026-02-05")), EndDate: ptr(day("2026-02-11"))}, testActor)
	require.NoError(t, err)
	require.NoError(t, env.Tasks.Delete(ctx, c.ID, testActor))
	env.task(t, p.ID, TaskInput{Title: "Added later"})

	diff, err := env.Baselines.Diff(ctx, base.ID)
	require.NoError(t, err)
	require.Len(t, diff.Items, 2, "deleted and new tasks are left out")

	assert.Equal(t, a.ID, diff.Items[0].TaskID)
	require.NotNil(t, diff.Items[0].DeltaDays)
	assert.Equal(t, 3, *diff.Items[0].DeltaDays)
	require.NotNil(t, diff.Items[0].DeltaPd)
	assert.InDelta(t, 1.5, *diff.Items[0].DeltaPd, 0.0001)

	require.NotNil(t, diff.Items[1].DeltaDays)
	assert.Equal(t, -2, *diff.Items[1].DeltaDays)

	assert.Equal(t, 1, diff.Summary.SlippedTasks)
	assert.Equal(t, 3, diff.Summary.TotalDeltaDays)
	assert.InDelta(t, 1.5, diff.Summary.DeltaPd, 0.0001)

	list, err := env.Baselines.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kickoff", list[0].Name)
}

func TestBaselineService_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, false)

	_, err := env.Baselines.Create(ctx, p.ID, "  ", testActor)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Baselines.Create(ctx, "missing", "Plan", testActor)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.Baselines.Diff(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentService_AddAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, false)
	task := env.task(t, p.ID, TaskInput{Title: "Discuss"})

	_, err := env.Comments.Add(ctx, task.ID, "first", "ana")
	require.NoError(t, err)
	_, err = env.Comments.Add(ctx, task.ID, "second", "ben")
	require.NoError(t, err)

	_, err = env.Comments.Add(ctx, task.ID, "   ", "ana")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.Comments.Add(ctx, "missing", "hello", "ana")
	assert.ErrorIs(t, err, ErrNotFound)

	comments, err := env.Comments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "ben", comments[1].UserID)
}

func TestCommentService_DeleteHidesAndLogsOnTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, false)
	task := env.task(t, p.ID, TaskInput{Title: "Discuss"})

	keep, err := env.Comments.Add(ctx, task.ID, "keep", "ana")
	require.NoError(t, err)
	drop, err := env.Comments.Add(ctx, task.ID, "drop", "ana")
	require.NoError(t, err)

	require.NoError(t, env.Comments.Delete(ctx, drop.ID, "ben"))

	comments, err := env.Comments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)

	assert.ErrorIs(t, env.Comments.Delete(ctx, drop.ID, "ben"), ErrNotFound, "already deleted")
	assert.ErrorIs(t, env.Comments.Delete(ctx, "missing", "ben"), ErrNotFound)

	history, err := env.History.ListByEntity(ctx, domain.EntityTask, task.ID)
	require.NoError(t, err)
	last := history[0]
	assert.Equal(t, "comment", last.Field)
	assert.Equal(t, "ben", last.UserID)
	require.NotNil(t, last.Before)
	assert.Equal(t, "drop", *last.Before)
	assert.Nil(t, last.After)
}

func TestChangeLog_RecordsActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, false)

	res, err := env.Tasks.Create(ctx, p.ID, TaskInput{Title: "Audited"}, "carla")
	require.NoError(t, err)

	history, err := env.History.ListByEntity(ctx, domain.EntityTask, res.Task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "carla", history[0].UserID)
	assert.Equal(t, "created", history[0].Field)
	assert.Nil(t, history[0].Before)
	require.NotNil(t, history[0].After)
	assert.Contains(t, *history[0].After, `"title":"Audited"`)
}
