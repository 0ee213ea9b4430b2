// Package app is the composition root: it opens the database and wires
// repositories, the unit of work and services for the CLI and MCP server.
package app

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/wbs/internal/config"
	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/service"
)

// Services holds every use case the outer surfaces call.
type Services struct {
	Projects     service.ProjectService
	Tasks        service.TaskService
	Dependencies service.DependencyService
	Schedule     service.ScheduleService
	TimeLogs     service.TimeLogService
	Baselines    service.BaselineService
	Comments     service.CommentService
	Deliverables service.DeliverableService
	History      service.ChangeLogService
	Import       service.ImportService
}

// NewServices wires services over an open database. Use-case events go to
// observer, which may be nil.
func NewServices(database *sql.DB, observer service.UseCaseObserver) *Services {
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	timeLogRepo := repository.NewSQLiteTimeLogRepo(database)
	changeLogRepo := repository.NewSQLiteChangeLogRepo(database)
	commentRepo := repository.NewSQLiteCommentRepo(database)
	baselineRepo := repository.NewSQLiteBaselineRepo(database)
	deliverableRepo := repository.NewSQLiteDeliverableRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	return &Services{
		Projects:     service.NewProjectService(projectRepo, uow, observer),
		Tasks:        service.NewTaskService(taskRepo, depRepo, timeLogRepo, uow, observer),
		Dependencies: service.NewDependencyService(depRepo, uow, observer),
		Schedule:     service.NewScheduleService(database, uow, observer),
		TimeLogs:     service.NewTimeLogService(timeLogRepo, uow),
		Baselines:    service.NewBaselineService(baselineRepo, taskRepo, uow, observer),
		Comments:     service.NewCommentService(commentRepo, uow),
		Deliverables: service.NewDeliverableService(deliverableRepo, uow, observer),
		History:      service.NewChangeLogService(changeLogRepo),
		Import:       service.NewImportService(uow, observer),
	}
}

// Open opens the configured database and wires services over it. The
// returned close function releases the database.
func Open(cfg config.Config, logger *slog.Logger) (*Services, func() error, error) {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	var observer service.UseCaseObserver
	if cfg.LogUseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}
	return NewServices(database, observer), database.Close, nil
}

// NewLogger builds the process logger. Output goes to w (normally stderr)
// so it never mixes with command output or the MCP stdio stream.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
