package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/wbs/internal/app"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/service"
	"github.com/alexanderramin/wbs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires an App over an in-memory DB for CLI integration tests.
// The process is treated as non-interactive.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	return &App{
		Services:      app.NewServices(testutil.NewTestDB(t), nil),
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a fresh root command and captures stdout/stderr.
func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExec(t *testing.T, a *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, a, args...)
	require.NoError(t, err, out)
	return out
}

func TestProjectCmd_AddListShow(t *testing.T) {
	a := testApp(t)

	out := mustExec(t, a, "project", "add", "--code", "WEB01", "--name", "Website", "--auto-schedule")
	assert.Contains(t, out, "Created project Website [WEB01]")

	out = mustExec(t, a, "project", "list")
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "Website")

	mustExec(t, a, "task", "add", "-p", "web01", "--title", "Design", "--start", "2026-02-02", "--end", "2026-02-06")
	out = mustExec(t, a, "project", "show", "WEB01")
	assert.Contains(t, out, "Design")

	_, err := executeCmd(t, a, "project", "add", "--code", "bad", "--name", "Nope")
	assert.Error(t, err)
}

func TestTaskAndDepCmds_AutoScheduleFlow(t *testing.T) {
	a := testApp(t)
	mustExec(t, a, "project", "add", "--code", "APP01", "--name", "App", "--auto-schedule")

	mustExec(t, a, "task", "add", "-p", "APP01", "--title", "Phase", "--type", "summary")
	mustExec(t, a, "task", "add", "-p", "APP01", "--parent", "1", "--title", "Build",
		"--start", "2026-02-01", "--end", "2026-02-10")
	out := mustExec(t, a, "task", "add", "-p", "APP01", "--parent", "1", "--title", "Test",
		"--start", "2026-02-11", "--end", "2026-02-15")
	assert.Contains(t, out, "Created task 1.2 Test")

	out = mustExec(t, a, "dep", "add", "-p", "APP01", "1.1", "1.2", "--lag", "2")
	assert.Contains(t, out, "Added dependency")
	assert.Contains(t, out, "Rescheduled 1 task(s)")
	assert.Contains(t, out, "2026-02-13 → 2026-02-17")

	out = mustExec(t, a, "dep", "list", "-p", "APP01")
	assert.Contains(t, out, "1.1 Build")
	assert.Contains(t, out, "1.2 Test")
	assert.Contains(t, out, "2d")

	out = mustExec(t, a, "dep", "check", "-p", "APP01", "1.2", "1.1")
	assert.Contains(t, out, "cycle")
	out = mustExec(t, a, "dep", "check", "-p", "APP01", "1.1", "1.2")
	assert.Contains(t, out, "ok: no cycle")

	_, err := executeCmd(t, a, "dep", "add", "-p", "APP01", "1.2", "1.1")
	assert.ErrorIs(t, err, service.ErrConflict)

	out = mustExec(t, a, "task", "list", "-p", "APP01")
	assert.Contains(t, out, "Phase")
	assert.Contains(t, out, "1.1")
	assert.Contains(t, out, "1.2")

	out = mustExec(t, a, "task", "show", "-p", "APP01", "1")
	assert.Contains(t, out, "2026-02-01")
	assert.Contains(t, out, "2026-02-17")

	out = mustExec(t, a, "history", "-p", "APP01", "1.2")
	assert.Contains(t, out, "auto-scheduled")
}

func TestTaskUpdateCmd_ManualProjectWarnsThenPropagates(t *testing.T) {
	a := testApp(t)
	mustExec(t, a, "project", "add", "--code", "MAN01", "--name", "Manual")
	mustExec(t, a, "task", "add", "-p", "MAN01", "--title", "A", "--start", "2026-02-01", "--end", "2026-02-10")
	mustExec(t, a, "task", "add", "-p", "MAN01", "--title", "B", "--start", "2026-02-11", "--end", "2026-02-12")
	mustExec(t, a, "dep", "add", "-p", "MAN01", "1", "2")

	out := mustExec(t, a, "task", "update", "-p", "MAN01", "1", "--end", "2026-02-12")
	assert.Contains(t, out, "Updated task 1 A")
	assert.NotContains(t, out, "Rescheduled")

	out = mustExec(t, a, "schedule", "propagate", "-p", "MAN01", "1")
	assert.Contains(t, out, "2026-02-13 → 2026-02-14")

	out = mustExec(t, a, "schedule", "propagate", "-p", "MAN01", "1")
	assert.Contains(t, out, "Schedule already satisfied.")

	out = mustExec(t, a, "schedule", "recalc", "-p", "MAN01")
	assert.Contains(t, out, "Project summaries recalculated.")
}

func TestDeleteCmds_RequireConfirmation(t *testing.T) {
	a := testApp(t)
	mustExec(t, a, "project", "add", "--code", "DEL01", "--name", "Doomed")
	mustExec(t, a, "task", "add", "-p", "DEL01", "--title", "Gone soon")

	_, err := executeCmd(t, a, "task", "delete", "-p", "DEL01", "1")
	assert.ErrorContains(t, err, "pass --yes")

	a.IsInteractive = func() bool { return true }
	var asked string
	a.Confirm = func(title string) (bool, error) {
		asked = title
		return false, nil
	}
	_, err = executeCmd(t, a, "task", "delete", "-p", "DEL01", "1")
	assert.ErrorContains(t, err, "cancelled")
	assert.Equal(t, `Really delete task "Gone soon"?`, asked)

	a.Confirm = func(string) (bool, error) { return true, nil }
	out := mustExec(t, a, "task", "delete", "-p", "DEL01", "1")
	assert.Contains(t, out, "Deleted task Gone soon")

	out = mustExec(t, a, "project", "delete", "DEL01", "--yes")
	assert.Contains(t, out, "Deleted project DEL01")
}

func TestImportCmd_YAML(t *testing.T) {
	a := testApp(t)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	plan := `
project:
  code: IMP01
  name: Imported
  auto_schedule: true
tasks:
  - ref: a
    title: First
    start_date: "2026-05-04"
    end_date: "2026-05-06"
  - ref: b
    title: Second
    start_date: "2026-05-05"
    end_date: "2026-05-05"
dependencies:
  - predecessor_ref: a
    successor_ref: b
`
	require.NoError(t, os.WriteFile(path, []byte(plan), 0o600))

	out := mustExec(t, a, "import", path)
	assert.Contains(t, out, "Imported project Imported [IMP01]: 2 tasks, 1 dependencies")
	assert.Contains(t, out, "2026-05-07 → 2026-05-07")

	_, err := executeCmd(t, a, "import", path)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestLogBaselineCommentCmds(t *testing.T) {
	a := testApp(t)
	a.Actor = "ana"
	mustExec(t, a, "project", "add", "--code", "LOG01", "--name", "Logged")
	mustExec(t, a, "task", "add", "-p", "LOG01", "--title", "Work", "--estimate", "3",
		"--start", "2026-02-02", "--end", "2026-02-04")

	out := mustExec(t, a, "log", "add", "-p", "LOG01", "1", "--pd", "1.5", "--date", "2026-02-02")
	assert.Contains(t, out, "Logged 1.5pd on 2026-02-02 (total 1.5pd)")
	out = mustExec(t, a, "log", "list", "-p", "LOG01", "1")
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "1.5pd")

	out = mustExec(t, a, "comment", "add", "-p", "LOG01", "1", "looks", "good")
	assert.Contains(t, out, "Comment added.")
	out = mustExec(t, a, "comment", "list", "-p", "LOG01", "1")
	assert.Contains(t, out, "looks good")

	out = mustExec(t, a, "baseline", "create", "-p", "LOG01", "--name", "v1")
	assert.Contains(t, out, `Created baseline "v1"`)
	out = mustExec(t, a, "baseline", "list", "-p", "LOG01")
	assert.Contains(t, out, "v1")

	baselines, err := a.Services.Baselines.List(context.Background(), mustProjectID(t, a, "LOG01"))
	require.NoError(t, err)
	require.Len(t, baselines, 1)

	mustExec(t, a, "task", "update", "-p", "LOG01", "1", "--end", "2026-02-07")
	out = mustExec(t, a, "baseline", "diff", baselines[0].ID)
	assert.Contains(t, out, "BASELINE V1")
	assert.Contains(t, out, "+3")
}

func TestRootCmd_ActorPrecedence(t *testing.T) {
	a := testApp(t)
	a.Actor = "ana"
	NewRootCmd(a)
	assert.Equal(t, "ana", a.Actor, "registering flags keeps a preset actor")

	mustExec(t, a, "project", "add", "--code", "ACT01", "--name", "Actors")
	mustExec(t, a, "task", "add", "-p", "ACT01", "--title", "Work")
	mustExec(t, a, "log", "add", "-p", "ACT01", "1", "--pd", "1", "--date", "2026-02-02", "--actor", "bob")
	out := mustExec(t, a, "log", "list", "-p", "ACT01", "1")
	assert.Contains(t, out, "ana", "a preset actor wins over --actor")

	b := testApp(t)
	mustExec(t, b, "project", "add", "--code", "ACT02", "--name", "Flagged")
	mustExec(t, b, "task", "add", "-p", "ACT02", "--title", "Work")
	mustExec(t, b, "log", "add", "-p", "ACT02", "1", "--pd", "1", "--date", "2026-02-02", "--actor", "bob")
	assert.Equal(t, "bob", b.Config.Actor)
	out = mustExec(t, b, "log", "list", "-p", "ACT02", "1")
	assert.Contains(t, out, "bob")
}

func TestResolveTaskID_RequiresProjectForShortForms(t *testing.T) {
	a := testApp(t)
	mustExec(t, a, "project", "add", "--code", "RES01", "--name", "Resolve")
	mustExec(t, a, "task", "add", "-p", "RES01", "--title", "Only")

	_, err := executeCmd(t, a, "task", "show", "1")
	assert.ErrorContains(t, err, "need --project")

	_, err = executeCmd(t, a, "task", "show", "-p", "RES01", "9")
	assert.ErrorContains(t, err, "task not found")
}

func TestHistoryEntity(t *testing.T) {
	for in, want := range map[string]string{
		"task":       domain.EntityTask,
		"dep":        domain.EntityDependency,
		"Dependency": domain.EntityDependency,
		"project":    domain.EntityProject,
		"baseline":   domain.EntityBaseline,
	} {
		got, err := historyEntity(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := historyEntity("comment")
	assert.Error(t, err)
}

func mustProjectID(t *testing.T, a *App, code string) string {
	t.Helper()
	id, err := resolveProjectID(context.Background(), a, code)
	require.NoError(t, err)
	return id
}

func TestDeliverableCmds(t *testing.T) {
	a := testApp(t)
	mustExec(t, a, "project", "add", "--code", "DLV01", "--name", "Deliver")
	mustExec(t, a, "task", "add", "-p", "DLV01", "--title", "Write report")

	out := mustExec(t, a, "deliverable", "add", "-p", "DLV01", "--name", "Report",
		"--url", "https://docs.example.com/report", "--type", "doc")
	assert.Contains(t, out, `Created deliverable "Report"`)

	_, err := executeCmd(t, a, "deliverable", "add", "-p", "DLV01", "--name", "Bad", "--url", "report.pdf")
	assert.ErrorIs(t, err, service.ErrValidation)

	list, err := a.Services.Deliverables.ListByProject(context.Background(), mustProjectID(t, a, "DLV01"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	out = mustExec(t, a, "deliverable", "list", "-p", "DLV01")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "https://docs.example.com/report")

	out = mustExec(t, a, "deliverable", "link", "-p", "DLV01", "1", id)
	assert.Contains(t, out, "Linked deliverable "+id)
	_, err = executeCmd(t, a, "deliverable", "link", "-p", "DLV01", "1", id)
	assert.ErrorIs(t, err, service.ErrConflict)

	out = mustExec(t, a, "deliverable", "list", "-p", "DLV01", "--task", "1")
	assert.Contains(t, out, "Report")

	out = mustExec(t, a, "history", "--type", "deliverable", id)
	assert.Contains(t, out, "created")

	mustExec(t, a, "deliverable", "unlink", "-p", "DLV01", "1", id)
	out = mustExec(t, a, "deliverable", "list", "-p", "DLV01", "--task", "1")
	assert.Contains(t, out, "No deliverables.")
}

func TestCommentDeleteAndAssigneeCmds(t *testing.T) {
	a := testApp(t)
	mustExec(t, a, "project", "add", "--code", "CMT01", "--name", "Comments")
	mustExec(t, a, "task", "add", "-p", "CMT01", "--title", "Work", "--assignee", "ben", "--assignee", "ana")

	out := mustExec(t, a, "task", "show", "-p", "CMT01", "1")
	assert.Contains(t, out, "ana, ben")
	mustExec(t, a, "task", "update", "-p", "CMT01", "1", "--assignee", "cy")
	out = mustExec(t, a, "task", "show", "-p", "CMT01", "1")
	assert.Contains(t, out, "cy")
	assert.NotContains(t, out, "ana")

	mustExec(t, a, "comment", "add", "-p", "CMT01", "1", "obsolete", "note")
	views, err := a.Services.Tasks.List(context.Background(), mustProjectID(t, a, "CMT01"), false)
	require.NoError(t, err)
	comments, err := a.Services.Comments.ListByTask(context.Background(), views[0].ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	_, err = executeCmd(t, a, "comment", "delete", comments[0].ID)
	assert.ErrorContains(t, err, "pass --yes")

	out = mustExec(t, a, "comment", "delete", comments[0].ID, "--yes")
	assert.Contains(t, out, "Deleted comment")
	out = mustExec(t, a, "comment", "list", "-p", "CMT01", "1")
	assert.Contains(t, out, "No comments.")
}
