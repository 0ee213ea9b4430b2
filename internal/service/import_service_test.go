package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/importer"
	"github.com/alexanderramin/wbs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validImportSchema(autoSchedule bool) *importer.ImportSchema {
	return &importer.ImportSchema{
		Project: importer.ProjectImport{
			Code:         "IMP01",
			Name:         "Imported",
			AutoSchedule: autoSchedule,
		},
		Tasks: []importer.TaskImport{
			{Ref: "phase", Type: "summary", Title: "Phase"},
			{Ref: "a", ParentRef: ptr("phase"), Title: "A", StartDate: ptr("2026-02-02"), EndDate: ptr("2026-02-06"), EstimatePd: ptr(4.0), Status: "Done"},
			{Ref: "b", ParentRef: ptr("phase"), Title: "B", StartDate: ptr("2026-02-04"), EndDate: ptr("2026-02-05"), EstimatePd: ptr(2.0)},
			{Ref: "ship", Type: "milestone", Title: "Ship", EndDate: ptr("2026-02-06")},
		},
		Dependencies: []importer.DependencyImport{
			{PredecessorRef: "a", SuccessorRef: "b"},
			{PredecessorRef: "b", SuccessorRef: "ship", LagDays: 1},
		},
	}
}

func viewsByTitle(t *testing.T, env *testEnv, projectID string) map[string]*TaskView {
	t.Helper()
	views, err := env.Tasks.List(context.Background(), projectID, false)
	require.NoError(t, err)
	byTitle := make(map[string]*TaskView, len(views))
	for _, v := range views {
		byTitle[v.Title] = v
	}
	return byTitle
}

func TestImportService_ManualSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.Import.ImportProjectFromSchema(ctx, validImportSchema(false), testActor)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TaskCount)
	assert.Equal(t, 2, res.DependencyCount)
	assert.Empty(t, res.Affected)

	byTitle := viewsByTitle(t, env, res.Project.ID)
	phase := byTitle["Phase"]
	assert.Equal(t, "1", phase.WBS)
	assert.Equal(t, "1.2", byTitle["B"].WBS)
	assert.Equal(t, "2026-02-02", domain.FormatDate(phase.StartDate))
	assert.Equal(t, "2026-02-06", domain.FormatDate(phase.EndDate))
	assert.Equal(t, 67, phase.Progress, "A done with weight 4 of 6")
	assert.True(t, byTitle["B"].Warnings.Has(domain.WarningViolation))
	assert.True(t, byTitle["Ship"].Warnings.Has(domain.WarningViolation))
}

func TestImportService_AutoSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.Import.ImportProjectFromSchema(ctx, validImportSchema(true), testActor)
	require.NoError(t, err)
	require.Len(t, res.Affected, 2)

	byTitle := viewsByTitle(t, env, res.Project.ID)
	assert.Equal(t, "2026-02-07", domain.FormatDate(byTitle["B"].StartDate))
	assert.Equal(t, "2026-02-08", domain.FormatDate(byTitle["B"].EndDate))
	assert.Equal(t, "2026-02-10", domain.FormatDate(byTitle["Ship"].StartDate))
	assert.Equal(t, "2026-02-08", domain.FormatDate(byTitle["Phase"].EndDate))
	for _, v := range byTitle {
		assert.False(t, v.Warnings.HasWarning, "%s should be clean", v.Title)
	}
}

func TestImportService_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	schema := validImportSchema(false)
	schema.Dependencies = append(schema.Dependencies, importer.DependencyImport{PredecessorRef: "ship", SuccessorRef: "a"})
	schema.Tasks[2].Progress = ptr(150)

	_, err := env.Import.ImportProjectFromSchema(ctx, schema, testActor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "circular dependency")
	assert.Contains(t, err.Error(), "progress")

	projects, err := env.Projects.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestImportService_DuplicateCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Import.ImportProjectFromSchema(ctx, validImportSchema(false), testActor)
	require.NoError(t, err)
	_, err = env.Import.ImportProjectFromSchema(ctx, validImportSchema(false), testActor)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestImportService_FromYAMLFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "plan.yml")
	plan := `
project:
  code: YML01
  name: From YAML
tasks:
  - ref: only
    title: Only task
    start_date: "2026-04-01"
    end_date: "2026-04-03"
`
	require.NoError(t, os.WriteFile(path, []byte(plan), 0o600))

	res, err := env.Import.ImportProject(ctx, path, testActor)
	require.NoError(t, err)
	assert.Equal(t, "YML01", res.Project.Code)
	assert.Equal(t, 1, res.TaskCount)

	_, err = env.Import.ImportProject(ctx, filepath.Join(t.TempDir(), "absent.json"), testActor)
	assert.ErrorContains(t, err, "loading import file")
}

func TestImportService_RollbackOnTaskCreateFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	// second task insert is task "A"
	failUoW := &testutil.FaultyUoW{
		DB:     database,
		Match:  "INSERT INTO tasks",
		FailOn: 2,
		Err:    fmt.Errorf("injected task create failure"),
	}
	env := newTestEnvWithUoW(database, failUoW)

	_, err := env.Import.ImportProjectFromSchema(ctx, validImportSchema(true), testActor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected task create failure")

	projects, err := env.projects.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, projects, "transaction should roll back the project")
}
