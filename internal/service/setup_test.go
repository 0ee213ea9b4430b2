package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testActor = "tester"

type testEnv struct {
	db         *sql.DB
	projects   *repository.SQLiteProjectRepo
	taskRepo   *repository.SQLiteTaskRepo
	depRepo    *repository.SQLiteDependencyRepo
	changeLogs *repository.SQLiteChangeLogRepo

	Projects     ProjectService
	Tasks        TaskService
	Dependencies DependencyService
	Schedule     ScheduleService
	TimeLogs     TimeLogService
	Baselines    BaselineService
	Comments     CommentService
	Deliverables DeliverableService
	History      ChangeLogService
	Import       ImportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestEnvWithUoW(database, testutil.NewTestUoW(database))
}

func newTestEnvWithUoW(database *sql.DB, uow db.UnitOfWork) *testEnv {
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)
	timeLogs := repository.NewSQLiteTimeLogRepo(database)
	changeLogs := repository.NewSQLiteChangeLogRepo(database)
	comments := repository.NewSQLiteCommentRepo(database)
	baselines := repository.NewSQLiteBaselineRepo(database)
	deliverables := repository.NewSQLiteDeliverableRepo(database)

	return &testEnv{
		db:           database,
		projects:     projects,
		taskRepo:     tasks,
		depRepo:      deps,
		changeLogs:   changeLogs,
		Projects:     NewProjectService(projects, uow),
		Tasks:        NewTaskService(tasks, deps, timeLogs, uow),
		Dependencies: NewDependencyService(deps, uow),
		Schedule:     NewScheduleService(database, uow),
		TimeLogs:     NewTimeLogService(timeLogs, uow),
		Baselines:    NewBaselineService(baselines, tasks, uow),
		Comments:     NewCommentService(comments, uow),
		Deliverables: NewDeliverableService(deliverables, uow),
		History:      NewChangeLogService(changeLogs),
		Import:       NewImportService(uow),
	}
}

func (e *testEnv) project(t *testing.T, autoSchedule bool) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Service Project", testutil.WithAutoSchedule(autoSchedule))
	require.NoError(t, e.Projects.Create(context.Background(), p, testActor))
	return p
}

func (e *testEnv) task(t *testing.T, projectID string, in TaskInput) *TaskView {
	t.Helper()
	res, err := e.Tasks.Create(context.Background(), projectID, in, testActor)
	require.NoError(t, err)
	return res.Task
}

func (e *testEnv) summary(t *testing.T, projectID, title string, parentID *string) *TaskView {
	t.Helper()
	return e.task(t, projectID, TaskInput{Title: title, Type: domain.TaskTypeSummary, ParentID: parentID})
}

func (e *testEnv) dated(t *testing.T, projectID, title, start, end string, parentID *string) *TaskView {
	t.Helper()
	return e.task(t, projectID, TaskInput{
		Title:     title,
		ParentID:  parentID,
		StartDate: testutil.DatePtr(start),
		EndDate:   testutil.DatePtr(end),
	})
}

func (e *testEnv) link(t *testing.T, projectID, pred, succ string, lag int) *DependencyResult {
	t.Helper()
	res, err := e.Dependencies.Create(context.Background(), projectID, DependencyInput{PredecessorID: pred, SuccessorID: succ, LagDays: lag}, testActor)
	require.NoError(t, err)
	return res
}

func day(s string) time.Time {
	return testutil.MustDate(s)
}

func ptr[T any](v T) *T {
	return &v
}
